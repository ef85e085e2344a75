package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

const (
	labelResModel  = "sale.order"
	labelMimeType  = "application/pdf"
	trackingPrefix = "TRK"
)

// Outcome is the result of a step whose failure must not stop the steps
// after it.
type Outcome[T any] struct {
	Value T
	Err   error
}

func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

func attempt[T any](fn func() (T, error)) Outcome[T] {
	v, err := fn()
	return Outcome[T]{Value: v, Err: err}
}

type PickingOutcome struct {
	PickingID int64
	// Retried is set when the first validation failed and the picking was
	// reserved and validated a second time.
	Retried    bool
	ReserveErr error
	Err        error
}

type LabelOutcome struct {
	AttachmentID   int64
	TrackingNumber string
}

type FulfillmentReport struct {
	// Invoice holds the first posted invoice id, or nil when the order had
	// nothing to invoice.
	Invoice  Outcome[*int64]
	Pickings Outcome[[]PickingOutcome]
	Label    Outcome[LabelOutcome]
}

type StepFailure struct {
	Step string
	Err  error
}

// Failures collects every error the best-effort steps recovered from, in
// step order.
func (r FulfillmentReport) Failures() []StepFailure {
	var failures []StepFailure
	if r.Invoice.Failed() {
		failures = append(failures, StepFailure{Step: "invoice", Err: r.Invoice.Err})
	}
	if r.Pickings.Failed() {
		failures = append(failures, StepFailure{Step: "pickings", Err: r.Pickings.Err})
	}
	for _, p := range r.Pickings.Value {
		if p.Err != nil {
			failures = append(failures, StepFailure{Step: fmt.Sprintf("picking %d", p.PickingID), Err: p.Err})
		}
	}
	if r.Label.Failed() {
		failures = append(failures, StepFailure{Step: "label", Err: r.Label.Err})
	}
	return failures
}

// FulfillmentCoordinator runs the post-confirmation side effects of an
// order. Each step is attempted regardless of how the previous ones ended.
type FulfillmentCoordinator struct {
	invoicing   port.Invoicing
	warehouse   port.Warehouse
	attachments port.Attachments
	renderer    port.LabelRenderer
	now         func() time.Time
}

func NewFulfillmentCoordinator(erp interface {
	port.Invoicing
	port.Warehouse
	port.Attachments
}, renderer port.LabelRenderer, now func() time.Time) *FulfillmentCoordinator {
	if now == nil {
		now = time.Now
	}
	return &FulfillmentCoordinator{
		invoicing:   erp,
		warehouse:   erp,
		attachments: erp,
		renderer:    renderer,
		now:         now,
	}
}

func (c *FulfillmentCoordinator) Fulfill(ctx context.Context, orderID int64, customer domain.CustomerInput) FulfillmentReport {
	var report FulfillmentReport
	report.Invoice = attempt(func() (*int64, error) { return c.invoice(ctx, orderID) })
	report.Pickings = attempt(func() ([]PickingOutcome, error) { return c.validatePickings(ctx, orderID) })
	report.Label = attempt(func() (LabelOutcome, error) { return c.attachLabel(ctx, orderID, customer) })
	return report
}

func (c *FulfillmentCoordinator) invoice(ctx context.Context, orderID int64) (*int64, error) {
	invoiceIDs, err := c.invoicing.CreateInvoices(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("create invoices: %w", err)
	}
	if len(invoiceIDs) == 0 {
		return nil, nil
	}

	if err := c.invoicing.PostInvoices(ctx, invoiceIDs); err != nil {
		return nil, fmt.Errorf("post invoices: %w", err)
	}

	invoiceID := invoiceIDs[0]
	return &invoiceID, nil
}

// validatePickings fails as a whole only when the pickings cannot be
// listed; per-picking errors are reported on each PickingOutcome.
func (c *FulfillmentCoordinator) validatePickings(ctx context.Context, orderID int64) ([]PickingOutcome, error) {
	pickings, err := c.warehouse.ListPickings(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list pickings: %w", err)
	}

	outcomes := make([]PickingOutcome, 0, len(pickings))
	for _, p := range pickings {
		if p.Done() {
			continue
		}
		outcomes = append(outcomes, c.validatePicking(ctx, p.ID))
	}
	return outcomes, nil
}

func (c *FulfillmentCoordinator) validatePicking(ctx context.Context, pickingID int64) PickingOutcome {
	outcome := PickingOutcome{PickingID: pickingID}
	if err := c.warehouse.ValidatePicking(ctx, pickingID); err == nil {
		return outcome
	}

	outcome.Retried = true
	outcome.ReserveErr = c.warehouse.ReservePicking(ctx, pickingID)
	outcome.Err = c.warehouse.ValidatePicking(ctx, pickingID)
	return outcome
}

func (c *FulfillmentCoordinator) attachLabel(ctx context.Context, orderID int64, customer domain.CustomerInput) (LabelOutcome, error) {
	tracking := NewTrackingNumber(c.now())

	pdf, err := c.renderer.RenderLabel(domain.ShippingLabel{
		OrderID:        orderID,
		TrackingNumber: tracking,
		RecipientName:  customer.RecipientName(),
		AddressLines:   customer.AddressLines(),
	})
	if err != nil {
		return LabelOutcome{}, fmt.Errorf("render label: %w", err)
	}

	attachmentID, err := c.attachments.CreateAttachment(ctx, domain.Attachment{
		Name:     fmt.Sprintf("ShippingLabel_%d.pdf", orderID),
		ResModel: labelResModel,
		ResID:    orderID,
		MimeType: labelMimeType,
		Data:     pdf,
	})
	if err != nil {
		return LabelOutcome{}, fmt.Errorf("attach label: %w", err)
	}

	return LabelOutcome{AttachmentID: attachmentID, TrackingNumber: tracking}, nil
}

// NewTrackingNumber derives a human-readable tracking reference from the
// clock. Two labels rendered in the same millisecond share a number.
func NewTrackingNumber(t time.Time) string {
	return fmt.Sprintf("%s%d", trackingPrefix, t.UnixMilli())
}
