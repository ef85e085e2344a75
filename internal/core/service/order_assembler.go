package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

// draftCancelTimeout bounds the compensating cancel, which runs detached from
// the caller's context.
const draftCancelTimeout = 30 * time.Second

type OrderAssembler struct {
	orders port.SalesOrders
	logger *zap.Logger
}

func NewOrderAssembler(orders port.SalesOrders, logger *zap.Logger) *OrderAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderAssembler{orders: orders, logger: logger}
}

// CreateAndConfirm creates the sales order and confirms it. The returned id
// is non-zero whenever creation succeeded, even if confirmation failed.
// A draft whose confirmation fails is cancelled before the error is returned.
func (a *OrderAssembler) CreateAndConfirm(ctx context.Context, partnerID int64, lines []domain.OrderLine, note string) (int64, error) {
	orderID, err := a.orders.CreateSalesOrder(ctx, domain.SalesOrderDraft{
		PartnerID: partnerID,
		Lines:     lines,
		Note:      note,
	})
	if err != nil {
		return 0, err
	}

	if err := a.orders.ConfirmSalesOrder(ctx, orderID); err != nil {
		if cancelErr := a.cancelDraft(ctx, orderID); cancelErr != nil {
			a.logger.Error("draft order left in ERP after failed confirmation",
				zap.Int64("order_id", orderID),
				zap.NamedError("confirm_error", err),
				zap.NamedError("cancel_error", cancelErr),
			)
		} else {
			a.logger.Warn("cancelled draft order after failed confirmation",
				zap.Int64("order_id", orderID),
				zap.Error(err),
			)
		}
		return orderID, err
	}

	return orderID, nil
}

// cancelDraft still runs when confirmation failed because the caller went away.
func (a *OrderAssembler) cancelDraft(ctx context.Context, orderID int64) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), draftCancelTimeout)
	defer cancel()
	return a.orders.CancelSalesOrder(ctx, orderID)
}

// BuildOrderLines pairs cart items with their resolved variants in cart
// order. Lines with the same name stay separate.
func BuildOrderLines(items []domain.CartItem, variants []*int64) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for i, item := range items {
		var variantID *int64
		if i < len(variants) {
			variantID = variants[i]
		}
		lines = append(lines, domain.OrderLine{
			VariantID: variantID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}
