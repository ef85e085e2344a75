package domain

import "github.com/shopspring/decimal"

type OrderState string

const (
	OrderStateReceived             OrderState = "received"
	OrderStatePartnerResolved      OrderState = "partner_resolved"
	OrderStateLinesResolved        OrderState = "lines_resolved"
	OrderStateOrderCreated         OrderState = "order_created"
	OrderStateOrderConfirmed       OrderState = "order_confirmed"
	OrderStateFulfillmentAttempted OrderState = "fulfillment_attempted"
	OrderStateComplete             OrderState = "complete"
	OrderStateRejected             OrderState = "rejected"
)

// SubmitRequest is the inbound cart. ShippingCost is validated but not sent
// to the ERP as an order line.
type SubmitRequest struct {
	Customer     *CustomerInput  `json:"customer"`
	Items        []CartItem      `json:"items"`
	ShippingCost decimal.Decimal `json:"shipping"`
	Note         string          `json:"note"`
}

type SubmitResult struct {
	OrderID           int64      `json:"orderId"`
	InvoiceID         *int64     `json:"invoiceId"`
	LabelAttachmentID *int64     `json:"labelAttachmentId"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	State             OrderState `json:"-"`
}

// OrderLine is one sales-order line. VariantID is nil when the product
// template has no variant yet.
type OrderLine struct {
	VariantID *int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

type SalesOrderDraft struct {
	PartnerID int64
	Lines     []OrderLine
	Note      string
}
