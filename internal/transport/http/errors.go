package http

import "errors"

var (
	errEmptyMessage  = errors.New("message is required")
	errMissingStore  = errors.New("store is required")
	errMissingUserID = errors.New("user_id is required")
)
