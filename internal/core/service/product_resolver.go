package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

// ProductResolver maps a cart line name to a sellable ERP variant,
// creating the product template on first sight.
type ProductResolver struct {
	catalog        port.ProductCatalog
	lookupAttempts int
	lookupDelay    time.Duration
}

// NewProductResolver builds a resolver. lookupAttempts bounds how many times
// the variant of a freshly created template is looked up before the line is
// accepted without a product reference.
func NewProductResolver(catalog port.ProductCatalog, lookupAttempts int, lookupDelay time.Duration) *ProductResolver {
	if lookupAttempts < 1 {
		lookupAttempts = 1
	}
	return &ProductResolver{
		catalog:        catalog,
		lookupAttempts: lookupAttempts,
		lookupDelay:    lookupDelay,
	}
}

// ResolveVariant returns the first variant of the template named name, or
// nil when the template has no variant yet. The price only seeds a new
// template; an existing template keeps its catalog price.
func (r *ProductResolver) ResolveVariant(ctx context.Context, name string, price decimal.Decimal) (*int64, error) {
	templateID, found, err := r.catalog.FindTemplateByName(ctx, name)
	if err != nil {
		return nil, err
	}

	attempts := 1
	if !found {
		templateID, err = r.catalog.CreateTemplate(ctx, domain.ProductTemplateDraft{Name: name, ListPrice: price})
		if err != nil {
			return nil, err
		}
		attempts = r.lookupAttempts
	}

	for i := 0; i < attempts; i++ {
		if i > 0 && r.lookupDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.lookupDelay):
			}
		}

		variantID, ok, err := r.catalog.FindVariantByTemplate(ctx, templateID)
		if err != nil {
			return nil, err
		}
		if ok {
			return &variantID, nil
		}
	}

	return nil, nil
}
