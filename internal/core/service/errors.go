package service

import (
	"errors"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

var (
	ErrInvalidPayload    = errors.New("invalid payload - customer and items are required")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrMailNotConfigured = errors.New("SMTP not configured")
)

// RejectedError reports a submission that ended in the rejected state.
// Stage is the last state the workflow reached before failing.
type RejectedError struct {
	Stage domain.OrderState
	Err   error
}

func (e *RejectedError) Error() string {
	return e.Err.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}
