package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PartnerDraft struct {
	Name   string
	Email  string
	Street string
	City   string
	Zip    string
}

type ProductTemplateDraft struct {
	Name      string
	ListPrice decimal.Decimal
}

const PickingStateDone = "done"

type Picking struct {
	ID    int64
	State string
}

func (p Picking) Done() bool {
	return p.State == PickingStateDone
}

type Attachment struct {
	Name     string
	ResModel string
	ResID    int64
	MimeType string
	Data     []byte
}

// ShippingLabel carries the fields rendered onto a label document.
type ShippingLabel struct {
	OrderID        int64
	TrackingNumber string
	RecipientName  string
	AddressLines   []string
}

// ScanPayload is the string encoded in the label's scannable code.
func (l ShippingLabel) ScanPayload() string {
	return fmt.Sprintf("ORDER:%d|TRACK:%s", l.OrderID, l.TrackingNumber)
}

// ERPSession is an authenticated ERP user. The user id is reused on every
// remote call until the session is dropped.
type ERPSession struct {
	UID     int64          `json:"uid"`
	Context map[string]any `json:"context,omitempty"`
}
