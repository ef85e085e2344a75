package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

const idempotencyKeyPrefix = "order-submit:"

// SubmissionRecorder receives the outcome of every validated submission.
type SubmissionRecorder interface {
	Record(s domain.Submission)
}

type OrderWorkflowDeps struct {
	ERP      port.ERPGateway
	Renderer port.LabelRenderer
	// Mailer may be nil, in which case no confirmation email is sent.
	Mailer port.Mailer
	// Cache may be nil, in which case idempotency keys are ignored.
	Cache port.CacheRepository
	// Recorder may be nil.
	Recorder SubmissionRecorder
	Logger   *zap.Logger

	VariantLookupAttempts int
	VariantLookupDelay    time.Duration
	Now                   func() time.Time
}

// OrderWorkflow turns a cart into a confirmed ERP sales order. Failures up
// to and including confirmation reject the submission; everything after
// confirmation is best-effort and the submission always completes.
type OrderWorkflow struct {
	partners    *PartnerResolver
	products    *ProductResolver
	assembler   *OrderAssembler
	fulfillment *FulfillmentCoordinator
	notifier    *NotificationDispatcher
	cache       port.CacheRepository
	recorder    SubmissionRecorder
	logger      *zap.Logger
	now         func() time.Time
}

func NewOrderWorkflow(deps OrderWorkflowDeps) *OrderWorkflow {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OrderWorkflow{
		partners:    NewPartnerResolver(deps.ERP),
		products:    NewProductResolver(deps.ERP, deps.VariantLookupAttempts, deps.VariantLookupDelay),
		assembler:   NewOrderAssembler(deps.ERP, logger),
		fulfillment: NewFulfillmentCoordinator(deps.ERP, deps.Renderer, now),
		notifier:    NewNotificationDispatcher(deps.Mailer, logger),
		cache:       deps.Cache,
		recorder:    deps.Recorder,
		logger:      logger,
		now:         now,
	}
}

// Notifier exposes the dispatcher so transports can reuse the mail setup.
func (w *OrderWorkflow) Notifier() *NotificationDispatcher {
	return w.notifier
}

type submissionRun struct {
	id     string
	state  domain.OrderState
	email  string
	logger *zap.Logger
}

func (r *submissionRun) advance(state domain.OrderState) {
	r.logger.Debug("order submission advanced", zap.String("from", string(r.state)), zap.String("to", string(state)))
	r.state = state
}

// Submit runs the whole order workflow. idempotencyKey is optional; a key
// already seen returns ErrDuplicateRequest.
func (w *OrderWorkflow) Submit(ctx context.Context, req domain.SubmitRequest, idempotencyKey string) (domain.SubmitResult, error) {
	if err := validateSubmitRequest(req); err != nil {
		return domain.SubmitResult{State: domain.OrderStateRejected}, &RejectedError{Stage: domain.OrderStateReceived, Err: err}
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && w.cache != nil {
		ok, err := w.cache.SetIdempotency(ctx, idempotencyKeyPrefix+key)
		if err != nil {
			return domain.SubmitResult{State: domain.OrderStateRejected}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return domain.SubmitResult{State: domain.OrderStateRejected}, ErrDuplicateRequest
		}
	}

	runID := uuid.NewString()
	run := &submissionRun{
		id:     runID,
		state:  domain.OrderStateReceived,
		email:  req.Customer.Email,
		logger: w.logger.With(zap.String("submission_id", runID)),
	}

	result, err := w.run(ctx, run, req)
	if err != nil {
		if key != "" && w.cache != nil {
			if releaseErr := w.cache.ReleaseIdempotency(context.WithoutCancel(ctx), idempotencyKeyPrefix+key); releaseErr != nil {
				run.logger.Warn("failed to release idempotency key", zap.Error(releaseErr))
			}
		}
		stage := run.state
		run.logger.Error("order submission rejected", zap.String("stage", string(stage)), zap.Error(err))
		w.record(run, result, err)
		return domain.SubmitResult{OrderID: result.OrderID, State: domain.OrderStateRejected}, &RejectedError{Stage: stage, Err: err}
	}

	w.record(run, result, nil)
	return result, nil
}

func (w *OrderWorkflow) run(ctx context.Context, run *submissionRun, req domain.SubmitRequest) (domain.SubmitResult, error) {
	customer := *req.Customer

	partnerID, err := w.partners.Resolve(ctx, customer)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	run.advance(domain.OrderStatePartnerResolved)

	variants := make([]*int64, 0, len(req.Items))
	for _, item := range req.Items {
		variantID, err := w.products.ResolveVariant(ctx, item.Name, item.UnitPrice)
		if err != nil {
			return domain.SubmitResult{}, err
		}
		if variantID == nil {
			run.logger.Warn("order line has no product variant", zap.String("product", item.Name))
		}
		variants = append(variants, variantID)
	}
	lines := BuildOrderLines(req.Items, variants)
	run.advance(domain.OrderStateLinesResolved)

	orderID, err := w.assembler.CreateAndConfirm(ctx, partnerID, lines, req.Note)
	if orderID != 0 {
		run.advance(domain.OrderStateOrderCreated)
	}
	if err != nil {
		return domain.SubmitResult{OrderID: orderID}, err
	}
	run.advance(domain.OrderStateOrderConfirmed)

	// The order exists now; a caller hanging up must not abort fulfillment.
	ctx = context.WithoutCancel(ctx)

	result := domain.SubmitResult{OrderID: orderID}
	report := w.fulfillment.Fulfill(ctx, orderID, customer)
	for _, f := range report.Failures() {
		run.logger.Warn("fulfillment step failed", zap.Int64("order_id", orderID), zap.String("step", f.Step), zap.Error(f.Err))
	}
	if !report.Invoice.Failed() {
		result.InvoiceID = report.Invoice.Value
	}
	if !report.Label.Failed() {
		attachmentID := report.Label.Value.AttachmentID
		result.LabelAttachmentID = &attachmentID
		result.TrackingNumber = report.Label.Value.TrackingNumber
	}
	run.advance(domain.OrderStateFulfillmentAttempted)

	w.notifier.NotifyOrderConfirmation(ctx, customer.Email, orderID)
	run.advance(domain.OrderStateComplete)

	result.State = domain.OrderStateComplete
	run.logger.Info("order submission complete",
		zap.Int64("order_id", orderID),
		zap.Bool("invoiced", result.InvoiceID != nil),
		zap.Bool("labelled", result.LabelAttachmentID != nil),
	)
	return result, nil
}

func (w *OrderWorkflow) record(run *submissionRun, result domain.SubmitResult, err error) {
	if w.recorder == nil {
		return
	}
	s := domain.Submission{
		ID:                run.id,
		OrderID:           result.OrderID,
		InvoiceID:         result.InvoiceID,
		LabelAttachmentID: result.LabelAttachmentID,
		TrackingNumber:    result.TrackingNumber,
		CustomerEmail:     run.email,
		State:             domain.OrderStateComplete,
		CreatedAt:         w.now(),
	}
	if err != nil {
		s.State = domain.OrderStateRejected
		s.Failure = err.Error()
	}
	w.recorder.Record(s)
}

func validateSubmitRequest(req domain.SubmitRequest) error {
	if req.Customer == nil || len(req.Items) == 0 {
		return ErrInvalidPayload
	}
	for i, item := range req.Items {
		if !item.Valid() {
			return fmt.Errorf("%w: item %d needs a name, a quantity of at least 1 and a non-negative price", ErrInvalidPayload, i)
		}
	}
	if req.ShippingCost.IsNegative() {
		return fmt.Errorf("%w: shipping cost must not be negative", ErrInvalidPayload)
	}
	return nil
}
