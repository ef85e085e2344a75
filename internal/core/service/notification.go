package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/jewelry-storefront/internal/port"
)

// NotificationDispatcher sends customer email when a mail transport is
// configured. A nil mailer turns every notification into a no-op.
type NotificationDispatcher struct {
	mailer port.Mailer
	logger *zap.Logger
}

func NewNotificationDispatcher(mailer port.Mailer, logger *zap.Logger) *NotificationDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationDispatcher{mailer: mailer, logger: logger}
}

func (d *NotificationDispatcher) Enabled() bool {
	return d != nil && d.mailer != nil
}

// NotifyOrderConfirmation never fails; delivery problems are dropped.
func (d *NotificationDispatcher) NotifyOrderConfirmation(ctx context.Context, email string, orderID int64) {
	email = strings.TrimSpace(email)
	if !d.Enabled() || email == "" {
		return
	}

	_, err := d.mailer.Send(ctx, port.MailMessage{
		To:      email,
		Subject: "Order confirmation",
		Text:    fmt.Sprintf("Your order has been received. Order ID: %d", orderID),
	})
	if err != nil {
		d.logger.Debug("order confirmation email not sent", zap.Int64("order_id", orderID), zap.Error(err))
	}
}

// Send delivers an arbitrary message and reports transport errors.
func (d *NotificationDispatcher) Send(ctx context.Context, msg port.MailMessage) (string, error) {
	if !d.Enabled() {
		return "", ErrMailNotConfigured
	}
	id, err := d.mailer.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	return id, nil
}
