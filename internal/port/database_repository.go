package port

import (
	"context"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

type SubmissionRepository interface {
	// SaveSubmission persists the outcome of one order submission
	SaveSubmission(ctx context.Context, submission domain.Submission) error
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)

	// Create assigns the next numeric id and appends the product
	Create(ctx context.Context, product domain.Product) (domain.Product, error)

	// Update returns ErrProductNotFound when no product has the id
	Update(ctx context.Context, id int64, product domain.Product) (domain.Product, error)

	// Delete returns ErrProductNotFound when no product has the id
	Delete(ctx context.Context, id int64) error
}
