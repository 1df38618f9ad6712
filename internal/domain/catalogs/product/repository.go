package product

import (
	"context"

	"procura/internal/core/id"
	"procura/internal/domain"
)

// Repository defines storage operations for the Product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID id.ID) error
	Exists(ctx context.Context, productID id.ID) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
