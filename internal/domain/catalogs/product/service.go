package product

import (
	"context"
	"fmt"
	"time"

	"procura/internal/core/id"
	"procura/internal/core/numerator"
	"procura/internal/domain"
)

// NumberPrefix is the code prefix for auto-generated product codes.
const NumberPrefix = "PRD"

// Service provides business logic for the Product catalog.
type Service struct {
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Product service.
func NewService(repo Repository, gen numerator.Generator) *Service {
	return &Service{repo: repo, numerator: gen}
}

// Create validates and persists a product, generating a code if absent.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.Code == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	return s.repo.Create(ctx, p)
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update validates and persists product changes.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Delete soft-deletes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.repo.Delete(ctx, productID)
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter)
}
