package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shopmate-io/orchestrator/internal/adapter/llm"
	"github.com/shopmate-io/orchestrator/internal/domain"
	"github.com/shopmate-io/orchestrator/internal/policy"
	"github.com/shopmate-io/orchestrator/internal/store"
	"github.com/shopmate-io/orchestrator/internal/tools"
)

// Canned replies for the paths where no model output is available or
// trustworthy.
const (
	fallbackReply     = "I'm here to help! Could you please rephrase your question?"
	composerFallback  = "I'm here to help! How can I assist you today?"
	expiredConfirm    = "I couldn't find that confirmation request. It may have expired. Please try again."
	genericErrorReply = "I'm having trouble processing your request right now. Please try again or contact support."
	lockedReply       = "This session has been paused pending review by our support team. A human agent will follow up with you shortly."
	validationTrouble = "I'm having trouble validating this request against our policies. Please contact customer support for assistance."
)

// Config tunes orchestrator behavior.
type Config struct {
	PendingActionTTL    time.Duration
	ReturnWindowDays    int
	LockFlagThreshold   int
	ReviewFlagThreshold int
}

// Orchestrator drives one conversational turn end to end: plan, execute
// tools, gate destructive actions through policy, compose, assess, and
// escalate.
type Orchestrator struct {
	store      store.Store
	planner    *Planner
	composer   *Composer
	assessor   *Assessor
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	engine     *policy.Engine
	tracker    *FlagTracker
	cfg        Config
}

// New wires an orchestrator from its collaborators.
func New(st store.Store, client llm.LLMClient, model string, registry *tools.Registry, engine *policy.Engine, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:      st,
		planner:    NewPlanner(client, model),
		composer:   NewComposer(client, model),
		assessor:   NewAssessor(client, model),
		registry:   registry,
		dispatcher: tools.NewDispatcher(registry),
		engine:     engine,
		tracker:    NewFlagTracker(st, cfg.LockFlagThreshold, cfg.ReviewFlagThreshold),
		cfg:        cfg,
	}
}

// ExecuteTurn processes one user message and returns the terminal
// response for it. Failures inside the turn degrade to canned replies;
// the error return is reserved for infrastructure failures before the
// turn can start.
func (o *Orchestrator) ExecuteTurn(ctx context.Context, sessionID string, req *domain.ChatRequest) (resp *domain.MessageResponse, err error) {
	locked, err := o.store.IsSessionLocked(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session lock: %w", err)
	}
	if locked {
		log.Printf("INFO: [agent] session %s is locked, short-circuiting", sessionID)
		return &domain.MessageResponse{
			Content:           lockedReply,
			Store:             req.Store,
			RequiresHuman:     true,
			ConfidenceScore:   0,
			IsContextRelevant: true,
			SessionLocked:     true,
			Timestamp:         time.Now().UTC(),
		}, nil
	}

	turn, err := o.store.IncrementTurn(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment turn: %w", err)
	}

	trace := &domain.TurnTrace{
		SessionID:  sessionID,
		TurnNumber: turn,
		UserInput:  req.Message,
		StartedAt:  time.Now().UTC(),
		State:      domain.TurnStateIntentRecognition,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [agent] panic during turn %d of session %s: %v", turn, sessionID, r)
			trace.SetState(domain.TurnStateError)
			trace.AddError(fmt.Sprintf("panic: %v", r))
			resp = o.errorResponse(req.Store)
			err = nil
		}
		trace.TotalDurationMs = time.Since(trace.StartedAt).Milliseconds()
		if resp != nil {
			trace.FinalContent = resp.Content
		}
		if serr := o.store.SaveTurnTrace(ctx, trace); serr != nil {
			log.Printf("WARN: [agent] failed to persist turn trace: %v", serr)
		}
	}()

	convo, err := o.loadContext(ctx, sessionID, req)
	if err != nil {
		trace.SetState(domain.TurnStateError)
		trace.AddError(err.Error())
		return o.errorResponse(req.Store), nil
	}

	if req.ConfirmActionID != "" {
		return o.handleConfirmation(ctx, convo, req, trace), nil
	}

	plan, raw, perr := o.planner.Plan(ctx, req, convo)
	now := time.Now().UTC()
	trace.PlanCompletedAt = &now
	trace.PlanRaw = raw
	if perr != nil {
		log.Printf("WARN: [pass1] planning failed: %v", perr)
		trace.PlanError = perr.Error()
		trace.SetState(domain.TurnStateError)
		o.recordFlag(ctx, convo, req, fallbackReply, domain.FlagReasonUnclearRequest, 0, perr.Error())
		return &domain.MessageResponse{
			Content:           fallbackReply,
			Store:             req.Store,
			RequiresHuman:     true,
			ConfidenceScore:   0,
			IsContextRelevant: true,
			Timestamp:         time.Now().UTC(),
		}, nil
	}
	trace.Plan = plan

	language := plan.ContextUnderstanding.LanguageDetected
	if language == "" {
		language = convo.DetectedLanguage
	}
	if language == "" {
		language = "en"
	}

	// A list_orders request with no referenced order means the user moved
	// on; the previously selected order no longer applies.
	if plan.ContextUnderstanding.ReferencedOrder == nil && plan.HasTool(domain.ToolListOrders) {
		if cerr := o.store.ClearOrder(ctx, sessionID, "order listing requested without reference"); cerr != nil {
			log.Printf("WARN: [context] failed to clear order: %v", cerr)
		}
		convo.CurrentOrder = nil
	}

	toExecute := o.executableCalls(plan, req.Store)

	trace.SetState(domain.TurnStateToolExecution)
	results := o.dispatcher.Execute(ctx, toExecute, req.UserID)
	now = time.Now().UTC()
	trace.ToolsCompletedAt = &now
	trace.ToolResults = results
	for _, r := range results {
		if !r.Success {
			trace.ToolErrors = append(trace.ToolErrors, fmt.Sprintf("%s: %s", r.ToolName, r.Error))
		}
	}

	products, orders, tracking := collectResults(results)

	convo = o.applyContextUpdates(ctx, sessionID, convo, plan, products, orders, language)

	var content string
	var pendingAction *domain.PendingAction

	if pc := plan.ProcessOrderCall(); plan.RequiresConfirmation && pc != nil {
		trace.SetState(domain.TurnStateConfirmationWaiting)
		content, pendingAction = o.gateDestructiveAction(ctx, convo, req, pc, results, trace)
	} else {
		trace.SetState(domain.TurnStateResponseGeneration)
		var cerr error
		content, cerr = o.composer.Compose(ctx, ComposeInput{
			UserMessage: req.Message,
			Intent:      plan.Intent,
			Language:    language,
			Context:     convo,
			Results:     results,
			Tracking:    tracking,
		})
		if cerr != nil {
			log.Printf("WARN: [pass2] composition failed: %v", cerr)
			trace.AddError(cerr.Error())
			content = composerFallback
		}
	}
	trace.ComposerOutput = content
	now = time.Now().UTC()
	trace.ReplyCompletedAt = &now

	trace.SetState(domain.TurnStateAssessment)
	ordersFound := len(orders)
	if ordersFound == 0 && convo.CurrentOrder != nil {
		ordersFound = 1
	}
	var toolsUsed []string
	for _, r := range results {
		toolsUsed = append(toolsUsed, string(r.ToolName))
	}
	assessment := o.assessor.Assess(ctx, AssessInput{
		UserMessage:   req.Message,
		Reply:         content,
		Intent:        plan.Intent,
		ToolsUsed:     toolsUsed,
		OrdersFound:   ordersFound,
		ProductsFound: len(products),
	})
	trace.Assessment = assessment

	sessionLocked := false
	if assessment.RequiresHuman && assessment.FlaggingReason != domain.FlagReasonNone {
		sessionLocked = o.recordFlag(ctx, convo, req, content,
			assessment.FlaggingReason, assessment.ConfidenceScore, assessment.Reasoning)
	}

	trace.SetState(domain.TurnStateComplete)
	return &domain.MessageResponse{
		Content:             content,
		Store:               req.Store,
		Products:            products,
		Orders:              orders,
		Tracking:            tracking,
		PendingAction:       pendingAction,
		RequiresHuman:       assessment.RequiresHuman,
		ConfidenceScore:     assessment.ConfidenceScore,
		IsContextRelevant:   assessment.IsContextRelevant,
		WarningMessage:      assessment.WarningMessage,
		AssessmentReasoning: assessment.Reasoning,
		SessionLocked:       sessionLocked,
		Timestamp:           time.Now().UTC(),
	}, nil
}

// loadContext fetches or creates the session context and folds the
// request's identity and order selection into it.
func (o *Orchestrator) loadContext(ctx context.Context, sessionID string, req *domain.ChatRequest) (*domain.ConversationContext, error) {
	convo, err := o.store.GetContext(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load context: %w", err)
	}
	if convo == nil {
		convo = &domain.ConversationContext{
			SessionID:        sessionID,
			DetectedLanguage: "en",
		}
	}
	convo.UserID = req.UserID
	convo.UserName = req.UserName
	convo.Store = req.Store
	if req.SelectedOrder != nil {
		convo.CurrentOrder = req.SelectedOrder
	}
	if err := o.store.SaveContext(ctx, convo); err != nil {
		return nil, fmt.Errorf("failed to save context: %w", err)
	}
	return convo, nil
}

// executableCalls returns the plan's calls ready for dispatch. Staged
// destructive actions are held back until the user confirms; every call
// is pinned to the request's store.
func (o *Orchestrator) executableCalls(plan *domain.IntentPlan, storeName string) []domain.ToolCall {
	var calls []domain.ToolCall
	for _, tc := range plan.ToolCalls {
		if plan.RequiresConfirmation && tc.ToolName == domain.ToolProcessOrder {
			continue
		}
		if tc.Parameters.Store == "" {
			tc.Parameters.Store = storeName
		}
		calls = append(calls, tc)
	}
	return calls
}

// collectResults extracts the displayable payloads from the batch.
func collectResults(results []domain.ToolResult) ([]domain.Product, []domain.Order, *domain.Tracking) {
	var products []domain.Product
	var orders []domain.Order
	var tracking *domain.Tracking
	for _, r := range results {
		if p := r.Products(); p != nil {
			products = append(products, p...)
		}
		if ord := r.Orders(); ord != nil {
			orders = append(orders, ord...)
		}
		if t := r.Tracking(); t != nil {
			tracking = t
		}
	}
	return products, orders, tracking
}

// applyContextUpdates persists what this turn learned into the session
// context.
func (o *Orchestrator) applyContextUpdates(ctx context.Context, sessionID string, convo *domain.ConversationContext, plan *domain.IntentPlan, products []domain.Product, orders []domain.Order, language string) *domain.ConversationContext {
	upd := domain.ContextUpdate{
		Intent:   plan.Intent,
		Language: language,
	}
	for _, p := range products {
		upd.Products = append(upd.Products, p.Ref())
	}
	if len(orders) == 1 {
		upd.Order = orders[0].Ref()
	}
	for _, tc := range plan.ToolCalls {
		upd.ToolCalls = append(upd.ToolCalls, string(tc.ToolName))
	}

	updated, err := o.store.UpdateContext(ctx, sessionID, upd)
	if err != nil {
		log.Printf("WARN: [context] failed to update context: %v", err)
		return convo
	}
	return updated
}

// gateDestructiveAction evaluates a staged cancel/return against the
// policy engine. Allowed actions are written to the pending-action
// ledger and echoed back for confirmation; denied actions get an
// explanation and nothing is staged. The order is never mutated here.
func (o *Orchestrator) gateDestructiveAction(ctx context.Context, convo *domain.ConversationContext, req *domain.ChatRequest, pc *domain.ToolCall, results []domain.ToolResult, trace *domain.TurnTrace) (string, *domain.PendingAction) {
	action := pc.Parameters.Action
	orderID := pc.Parameters.OrderID

	var status, createdAt string
	if req.SelectedOrder != nil {
		orderID = req.SelectedOrder.OrderID
		status = req.SelectedOrder.Status
		createdAt = req.SelectedOrder.CreatedAt
	} else if convo.CurrentOrder != nil {
		orderID = convo.CurrentOrder.OrderID
		status = convo.CurrentOrder.Status
		createdAt = convo.CurrentOrder.CreatedAt
	} else {
		log.Printf("WARN: [policy] no order selected for %s request", action)
	}

	daysElapsed, daysKnown := daysSince(createdAt)

	verdict, err := o.engine.Evaluate(ctx, policy.Input{
		Action:      action,
		Status:      status,
		DaysKnown:   daysKnown,
		DaysElapsed: daysElapsed,
		WindowDays:  o.cfg.ReturnWindowDays,
	})
	if err != nil {
		log.Printf("ERROR: [policy] evaluation failed: %v", err)
		trace.AddError(fmt.Sprintf("policy evaluation failed: %v", err))
		return validationTrouble, nil
	}

	log.Printf("INFO: [policy] %s order %s (status=%s): allowed=%v reason=%s",
		action, orderID, status, verdict.Allowed, verdict.Reason)

	explanation := o.composer.ExplainVerdict(ctx, ValidationInput{
		Action:      action,
		OrderID:     orderID,
		OrderStatus: status,
		CreatedAt:   createdAt,
		DaysElapsed: daysElapsed,
		DaysKnown:   daysKnown,
		WindowDays:  o.cfg.ReturnWindowDays,
		Policy:      extractPolicyContext(results),
	}, verdict)

	if !verdict.Allowed {
		return explanation, nil
	}

	now := time.Now().UTC()
	pending := &domain.PendingAction{
		ActionID:   uuid.NewString(),
		ActionType: domain.ToolProcessOrder,
		Parameters: map[string]string{
			"order_id": orderID,
			"action":   action,
			"store":    req.Store,
		},
		ConfirmationMessage: fmt.Sprintf("Are you sure you want to %s order %s?", action, orderID),
		CreatedAt:           now,
		ExpiresAt:           now.Add(o.cfg.PendingActionTTL),
	}

	if err := o.store.CreatePendingAction(ctx, pending); err != nil {
		log.Printf("ERROR: [policy] failed to stage pending action: %v", err)
		trace.AddError(fmt.Sprintf("failed to stage pending action: %v", err))
		return validationTrouble, nil
	}
	if err := o.store.StorePendingRef(ctx, convo.SessionID, &domain.PendingRef{
		ActionID:   pending.ActionID,
		ActionType: string(pending.ActionType),
	}); err != nil {
		log.Printf("WARN: [context] failed to mirror pending action: %v", err)
	}

	return explanation, pending
}

// handleConfirmation executes a previously staged action. The ledger
// entry is consumed before execution so the same confirmation can never
// run twice; the planner is bypassed entirely.
func (o *Orchestrator) handleConfirmation(ctx context.Context, convo *domain.ConversationContext, req *domain.ChatRequest, trace *domain.TurnTrace) *domain.MessageResponse {
	trace.SetState(domain.TurnStateConfirmationWaiting)

	pending, err := o.store.ConsumePendingAction(ctx, req.ConfirmActionID)
	if err != nil {
		log.Printf("ERROR: [confirm] failed to consume pending action: %v", err)
		trace.SetState(domain.TurnStateError)
		trace.AddError(err.Error())
		return o.errorResponse(req.Store)
	}
	if pending == nil {
		log.Printf("INFO: [confirm] action %s not found or expired", req.ConfirmActionID)
		trace.SetState(domain.TurnStateComplete)
		return &domain.MessageResponse{
			Content:           expiredConfirm,
			Store:             req.Store,
			ConfidenceScore:   0.5,
			IsContextRelevant: true,
			Timestamp:         time.Now().UTC(),
		}
	}

	args := tools.FilterParams(pending.ActionType, pending.Parameters)
	data, err := o.registry.Execute(ctx, string(pending.ActionType), args)
	if err != nil {
		// The error detail stays in the log and trace only.
		log.Printf("ERROR: [confirm] execution failed: %v", err)
		trace.SetState(domain.TurnStateError)
		trace.AddError(err.Error())
		return o.errorResponse(req.Store)
	}
	trace.ToolResults = []domain.ToolResult{{
		ToolName: pending.ActionType,
		Success:  true,
		Data:     data,
	}}

	if err := o.store.ClearPendingRef(ctx, convo.SessionID); err != nil {
		log.Printf("WARN: [context] failed to clear pending ref: %v", err)
	}

	action := pending.Parameters["action"]
	orderID := pending.Parameters["order_id"]
	if err := o.store.ClearOrder(ctx, convo.SessionID, fmt.Sprintf("order operation completed: %s for order %s", action, orderID)); err != nil {
		log.Printf("WARN: [context] failed to clear order: %v", err)
	}
	log.Printf("INFO: [confirm] %s executed for order %s", action, orderID)

	trace.SetState(domain.TurnStateComplete)
	return &domain.MessageResponse{
		Content:           fmt.Sprintf("Your %s request for order %s has been processed successfully. Is there anything else I can help you with?", action, orderID),
		Store:             req.Store,
		ConfidenceScore:   1.0,
		IsContextRelevant: true,
		Timestamp:         time.Now().UTC(),
	}
}

// recordFlag persists a session flag and reports whether it locked the
// session. Recording failures are logged, never surfaced to the user.
func (o *Orchestrator) recordFlag(ctx context.Context, convo *domain.ConversationContext, req *domain.ChatRequest, response string, reason domain.FlagReason, confidence float64, reasoning string) bool {
	locked, err := o.tracker.Record(ctx, &domain.SessionFlag{
		SessionID:  convo.SessionID,
		UserID:     req.UserID,
		Store:      req.Store,
		UserQuery:  req.Message,
		Response:   response,
		Reason:     reason,
		Confidence: confidence,
		Reasoning:  reasoning,
	})
	if err != nil {
		log.Printf("ERROR: [escalation] failed to record flag: %v", err)
		return false
	}
	return locked
}

func (o *Orchestrator) errorResponse(storeName string) *domain.MessageResponse {
	return &domain.MessageResponse{
		Content:           genericErrorReply,
		Store:             storeName,
		RequiresHuman:     true,
		ConfidenceScore:   0,
		IsContextRelevant: true,
		Timestamp:         time.Now().UTC(),
	}
}

// daysSince computes whole days between an order timestamp and now.
// Accepted formats are RFC3339, "2006-01-02 15:04:05", and bare dates;
// anything else reports unknown.
func daysSince(createdAt string) (int, bool) {
	if createdAt == "" {
		return 0, false
	}
	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		t, err = time.Parse(layout, createdAt)
		if err == nil {
			break
		}
	}
	if err != nil {
		log.Printf("WARN: [policy] could not parse order date %q", createdAt)
		return 0, false
	}
	days := int(time.Since(t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}
