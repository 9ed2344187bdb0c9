package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shopmate-io/orchestrator/internal/domain"
	"github.com/shopmate-io/orchestrator/internal/store"
)

// FlagTracker records session flags and applies the escalation
// thresholds. Policy-class flags lock the session once the lock
// threshold is reached; technical-class flags only accumulate in the
// review queue.
type FlagTracker struct {
	store           store.Store
	lockThreshold   int
	reviewThreshold int
}

// NewFlagTracker creates a tracker with the given thresholds.
func NewFlagTracker(st store.Store, lockThreshold, reviewThreshold int) *FlagTracker {
	return &FlagTracker{store: st, lockThreshold: lockThreshold, reviewThreshold: reviewThreshold}
}

// Record persists one flag and reports whether the session became
// locked as a result.
func (t *FlagTracker) Record(ctx context.Context, flag *domain.SessionFlag) (bool, error) {
	if flag.FlagID == "" {
		flag.FlagID = uuid.NewString()
	}
	if flag.FlaggedAt.IsZero() {
		flag.FlaggedAt = time.Now().UTC()
	}

	if err := t.store.CreateSessionFlag(ctx, flag); err != nil {
		return false, fmt.Errorf("failed to record flag: %w", err)
	}

	class := flag.Reason.Class()
	count, err := t.store.CountSessionFlags(ctx, flag.SessionID, class)
	if err != nil {
		return false, fmt.Errorf("failed to count flags: %w", err)
	}

	log.Printf("WARN: [escalation] session %s flagged (%s), %s count now %d",
		flag.SessionID, flag.Reason, class, count)

	if class == domain.FlagClassPolicy && count >= t.lockThreshold {
		if err := t.store.LockSession(ctx, flag.SessionID, string(flag.Reason)); err != nil {
			return false, fmt.Errorf("failed to lock session: %w", err)
		}
		log.Printf("WARN: [escalation] session %s locked after %d policy flags", flag.SessionID, count)
		return true, nil
	}

	if class == domain.FlagClassTechnical && count >= t.reviewThreshold {
		log.Printf("WARN: [escalation] session %s has %d technical flags awaiting review", flag.SessionID, count)
	}

	return false, nil
}
