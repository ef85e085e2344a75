package domain

import "time"

// Submission is the ledger entry written for every order submission that
// got past payload validation.
type Submission struct {
	ID                string
	OrderID           int64
	InvoiceID         *int64
	LabelAttachmentID *int64
	TrackingNumber    string
	CustomerEmail     string
	State             OrderState
	Failure           string
	CreatedAt         time.Time
}
