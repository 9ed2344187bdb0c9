// Package domain defines the core domain models for the orchestrator.
package domain

// IntentType represents the high-level intent category of a turn.
type IntentType string

const (
	IntentProductSearch     IntentType = "product_search"
	IntentOrderTracking     IntentType = "order_tracking"
	IntentOrderModification IntentType = "order_modification"
	IntentPolicyInquiry     IntentType = "policy_inquiry"
	IntentStockCheck        IntentType = "stock_check"
	IntentGeneralInquiry    IntentType = "general_inquiry"
	IntentGreeting          IntentType = "greeting"
	IntentOffTopic          IntentType = "off_topic"
)

// ValidIntent reports whether the planner produced a known intent.
func ValidIntent(i IntentType) bool {
	switch i {
	case IntentProductSearch, IntentOrderTracking, IntentOrderModification,
		IntentPolicyInquiry, IntentStockCheck, IntentGeneralInquiry,
		IntentGreeting, IntentOffTopic:
		return true
	}
	return false
}

// ToolName identifies a backend capability.
type ToolName string

const (
	ToolProductSearch      ToolName = "product_search"
	ToolFAQSearch          ToolName = "faq_search"
	ToolVariantCheck       ToolName = "variant_check"
	ToolProcessOrder       ToolName = "process_order"
	ToolListOrders         ToolName = "list_orders"
	ToolFetchOrderLocation ToolName = "fetch_order_location"
)

// ValidToolName reports whether the planner produced a known tool name.
func ValidToolName(n ToolName) bool {
	switch n {
	case ToolProductSearch, ToolFAQSearch, ToolVariantCheck,
		ToolProcessOrder, ToolListOrders, ToolFetchOrderLocation:
		return true
	}
	return false
}

// OrderStatus represents the lifecycle state of an order.
// "created" means payment is confirmed and the order is placed but not
// yet shipped.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
)

// OrderAction is a destructive order operation.
type OrderAction string

const (
	OrderActionCancel OrderAction = "cancel"
	OrderActionReturn OrderAction = "return"
)

// TurnState represents the stage of the per-message state machine.
type TurnState string

const (
	TurnStateIntentRecognition   TurnState = "INTENT_RECOGNITION"
	TurnStateToolExecution       TurnState = "TOOL_EXECUTION"
	TurnStateConfirmationWaiting TurnState = "CONFIRMATION_WAITING"
	TurnStateResponseGeneration  TurnState = "RESPONSE_GENERATION"
	TurnStateAssessment          TurnState = "ASSESSMENT"
	TurnStateComplete            TurnState = "COMPLETE"
	TurnStateError               TurnState = "ERROR"
)

// FlagReason classifies why a turn was flagged for human attention.
type FlagReason string

const (
	FlagReasonNone            FlagReason = "none"
	FlagReasonPotentialError  FlagReason = "potential_error"
	FlagReasonUnclearRequest  FlagReason = "unclear_request"
	FlagReasonOffTopic        FlagReason = "off_topic"
	FlagReasonPolicyViolation FlagReason = "policy_violation"
	FlagReasonAbusiveLanguage FlagReason = "abusive_language"
	FlagReasonPromptInjection FlagReason = "prompt_injection"
)

// FlagClass groups flag reasons for escalation thresholds.
type FlagClass string

const (
	// FlagClassPolicy flags lock the session once the threshold is hit.
	FlagClassPolicy FlagClass = "policy"
	// FlagClassTechnical flags are logged for review and never lock.
	FlagClassTechnical FlagClass = "technical"
)

// Class maps a flag reason to its escalation class.
func (r FlagReason) Class() FlagClass {
	switch r {
	case FlagReasonPolicyViolation, FlagReasonAbusiveLanguage, FlagReasonPromptInjection:
		return FlagClassPolicy
	}
	return FlagClassTechnical
}

// NormalizeFlagReason maps untrusted assessor output onto the closed enum.
// Unknown values degrade to potential_error so junk output can never
// contribute to a session lock.
func NormalizeFlagReason(s string) FlagReason {
	switch FlagReason(s) {
	case FlagReasonNone, FlagReasonPotentialError, FlagReasonUnclearRequest,
		FlagReasonOffTopic, FlagReasonPolicyViolation,
		FlagReasonAbusiveLanguage, FlagReasonPromptInjection:
		return FlagReason(s)
	}
	return FlagReasonPotentialError
}
