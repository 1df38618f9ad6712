package dto

import (
	"procura/internal/core/types"
	"procura/internal/domain/catalogs/product"
)

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	SKU          string `json:"sku"`
	DefaultPrice string `json:"defaultPrice"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	price := types.Zero()
	if r.DefaultPrice != "" {
		var err error
		price, err = types.NewMoneyFromString(r.DefaultPrice)
		if err != nil {
			return nil, err
		}
	}
	return product.NewProduct(r.Code, r.Name, r.SKU, price), nil
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Name         *string `json:"name"`
	SKU          *string `json:"sku"`
	DefaultPrice *string `json:"defaultPrice"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.DefaultPrice != nil {
		price, err := types.NewMoneyFromString(*r.DefaultPrice)
		if err != nil {
			return err
		}
		p.DefaultPrice = price
	}
	p.Version = r.Version
	return nil
}

// ProductResponse contains product fields.
type ProductResponse struct {
	BaseResponse
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	SKU          string      `json:"sku,omitempty"`
	DefaultPrice types.Money `json:"defaultPrice"`
}

// FromProduct creates ProductResponse from a domain entity.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		BaseResponse: FromBaseCatalog(p.BaseCatalog),
		Code:         p.Code,
		Name:         p.Name,
		SKU:          p.SKU,
		DefaultPrice: p.DefaultPrice,
	}
}

// FromProducts maps a slice of products.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}
