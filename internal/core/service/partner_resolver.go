package service

import (
	"context"
	"strings"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

// PartnerResolver finds or creates the ERP customer record for a checkout.
// Existing partners are never updated; the shipping address travels with
// the order and its label instead.
type PartnerResolver struct {
	partners port.PartnerDirectory
}

func NewPartnerResolver(partners port.PartnerDirectory) *PartnerResolver {
	return &PartnerResolver{partners: partners}
}

func (r *PartnerResolver) Resolve(ctx context.Context, customer domain.CustomerInput) (int64, error) {
	email := strings.TrimSpace(customer.Email)
	if email != "" {
		id, found, err := r.partners.FindPartnerByEmail(ctx, email)
		if err != nil {
			return 0, err
		}
		if found {
			return id, nil
		}
	}

	return r.partners.CreatePartner(ctx, domain.PartnerDraft{
		Name:   customer.DisplayName(),
		Email:  email,
		Street: customer.Address,
		City:   customer.City,
		Zip:    customer.ZipCode,
	})
}
