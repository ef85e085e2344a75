package port

import "github.com/rl1809/jewelry-storefront/internal/core/domain"

type LabelRenderer interface {
	// RenderLabel returns a PDF document for the label
	RenderLabel(label domain.ShippingLabel) ([]byte, error)
}
