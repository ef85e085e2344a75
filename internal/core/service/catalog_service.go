package service

import (
	"context"
	"fmt"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

const defaultCategory = "Other"

// CatalogService manages the storefront's local product list.
type CatalogService struct {
	repo port.ProductRepository
}

func NewCatalogService(repo port.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Create(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	product, err := s.repo.Create(ctx, NormalizeProduct(in))
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// Update replaces every field of the product with the normalized input.
func (s *CatalogService) Update(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	product, err := s.repo.Update(ctx, id, NormalizeProduct(in))
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// NormalizeProduct fills catalog defaults: category "Other", images
// falling back to the main image, in stock unless stated otherwise.
func NormalizeProduct(in domain.ProductInput) domain.Product {
	p := domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      in.Category,
		Image:         in.Image,
		Images:        in.Images,
		Features:      in.Features,
		InStock:       true,
		Stock:         in.Stock,
		Reviews:       in.Reviews,
		Featured:      in.Featured,
	}
	if p.Category == "" {
		p.Category = defaultCategory
	}
	if p.Images == nil {
		p.Images = []string{}
		if in.Image != "" {
			p.Images = []string{in.Image}
		}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	return p
}
