package purchase_order

import (
	"context"
	"fmt"
	"time"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/numerator"
	"procura/internal/core/tx"
	"procura/internal/domain"
	"procura/pkg/logger"
)

// NumberPrefix is the document number prefix for purchase orders.
const NumberPrefix = "PO"

// ReceiveRefChecker reports whether any committed receipt references an
// order. Implemented by the purchase receive repository; used to enforce
// referential integrity by rejecting deletes instead of cascading.
type ReceiveRefChecker interface {
	OrderReferenced(ctx context.Context, orderID id.ID) (bool, error)
}

// Service provides business operations for purchase order documents.
type Service struct {
	repo        Repository
	receiveRefs ReceiveRefChecker
	numerator   numerator.Generator
	txManager   tx.ReadOnlyManager
}

// NewService creates a new purchase order service.
func NewService(repo Repository, receiveRefs ReceiveRefChecker, gen numerator.Generator, txManager tx.ReadOnlyManager) *Service {
	return &Service{
		repo:        repo,
		receiveRefs: receiveRefs,
		numerator:   gen,
		txManager:   txManager,
	}
}

// Create validates the order, assigns a number and persists it with all
// lines at zero received quantity.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
	for i := range doc.Lines {
		if doc.Lines[i].ReceivedQty != 0 {
			return apperror.NewValidation("new order lines must start with zero received quantity").
				WithDetail("lineNo", i+1)
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Status != StatusPending && doc.Status != StatusApproved {
		return apperror.NewValidation("new orders must be pending or approved").
			WithDetail("status", string(doc.Status))
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase order created",
		"id", doc.ID,
		"number", doc.Number,
		"vendor_id", doc.VendorID)

	return nil
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Approve moves a pending order to approved.
func (s *Service) Approve(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.Status != StatusPending {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "only pending orders can be approved").
			WithDetail("status", string(doc.Status))
	}

	doc.Status = StatusApproved
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel moves an untouched order to the terminal cancelled state.
// Orders with received quantity cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.Status == StatusCancelled {
		return doc, nil
	}
	if doc.Touched() {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "order with received quantity cannot be cancelled").
			WithDetail("status", string(doc.Status))
	}

	doc.Status = StatusCancelled
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order cancelled", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

// Delete soft-deletes an order. Orders referenced by any receipt are
// rejected, never cascaded.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	if _, err := s.repo.GetByID(ctx, docID); err != nil {
		return err
	}

	referenced, err := s.receiveRefs.OrderReferenced(ctx, docID)
	if err != nil {
		return fmt.Errorf("check receive references: %w", err)
	}
	if referenced {
		return apperror.NewBusinessRule(apperror.CodeOrderReferenced, "order is referenced by receipts and cannot be deleted").
			WithDetail("order_id", docID.String())
	}

	return s.repo.Delete(ctx, docID)
}

// GetByNumber retrieves a purchase order by its document number, with lines.
func (s *Service) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetRemaining returns the outstanding quantity per order line, computed
// fresh from current order state. Fully received lines are excluded.
// Header and lines are read inside one read-only transaction so the
// answer reflects a single snapshot.
func (s *Service) GetRemaining(ctx context.Context, docID id.ID) ([]LineRemaining, error) {
	var remaining []LineRemaining
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		doc, err := s.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		remaining = doc.RemainingLines()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

// GetTotals returns the ordered/received/remaining money rollups for an
// order, computed from a single read-only snapshot.
func (s *Service) GetTotals(ctx context.Context, docID id.ID) (Totals, error) {
	var totals Totals
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		doc, err := s.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		totals = doc.Totals()
		return nil
	})
	if err != nil {
		return Totals{}, err
	}
	return totals, nil
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}
