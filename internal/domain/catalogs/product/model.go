// Package product provides the Product catalog used to compose order
// lines. Read-only from the reconciliation engine's perspective.
package product

import (
	"context"

	"procura/internal/core/apperror"
	"procura/internal/core/entity"
	"procura/internal/core/types"
)

// Product represents a purchasable item.
type Product struct {
	entity.Catalog

	// SKU is the external ASIN-style product code
	SKU string `db:"sku" json:"sku,omitempty"`

	// DefaultPrice seeds the unit price of new order lines
	DefaultPrice types.Money `db:"default_price" json:"defaultPrice"`
}

// NewProduct creates a new Product with generated ID.
func NewProduct(code, name, sku string, defaultPrice types.Money) *Product {
	return &Product{
		Catalog:      entity.NewCatalog(code, name),
		SKU:          sku,
		DefaultPrice: defaultPrice,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.DefaultPrice.IsNegative() {
		return apperror.NewValidation("default price must not be negative").
			WithDetail("field", "defaultPrice")
	}

	return nil
}
