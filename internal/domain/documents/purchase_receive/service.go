package purchase_receive

import (
	"context"
	"fmt"
	"time"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/numerator"
	"procura/internal/core/tx"
	"procura/internal/core/types"
	"procura/internal/domain"
	"procura/internal/domain/audit"
	"procura/internal/domain/documents/purchase_order"
	"procura/pkg/logger"
)

// NumberPrefix is the document number prefix for purchase receipts.
const NumberPrefix = "PR"

// AuditEntityType is the entity type under which committed receipts are
// recorded in the audit trail.
const AuditEntityType = "purchase_receive"

// maxCommitAttempts bounds the optimistic retry loop. A conflict means
// another receipt landed on the same order between our read and write;
// the whole validate-then-commit cycle reruns against fresh state.
const maxCommitAttempts = 3

// VendorChecker verifies vendor identity. Implemented by the vendor
// catalog; quantity authority never comes from here.
type VendorChecker interface {
	Exists(ctx context.Context, vendorID id.ID) (bool, error)
}

// OrderLineInput proposes receiving quantity against one order line.
// The purchase price is always copied from the order line at commit time.
type OrderLineInput struct {
	OrderLineID id.ID
	Quantity    int64
	SalePrice   *types.Money
	ConditionID id.ID
	BrandID     *id.ID
}

// ExtraLineInput proposes receiving an unordered item.
type ExtraLineInput struct {
	Title         string
	SKU           string
	Quantity      int64
	PurchasePrice types.Money
	SalePrice     *types.Money
	ConditionID   id.ID
	BrandID       *id.ID
}

// CommitInput is one proposed receipt.
type CommitInput struct {
	OrderID    *id.ID
	VendorID   id.ID
	Date       time.Time
	Notes      string
	OrderLines []OrderLineInput
	ExtraLines []ExtraLineInput
}

// CommitResult returns the committed receipt together with the updated
// order so callers can re-render remaining quantities immediately.
// Order is nil for receipts without an order reference.
type CommitResult struct {
	Order   *purchase_order.PurchaseOrder `json:"order,omitempty"`
	Receive *PurchaseReceive              `json:"receive"`
}

// Service is the reconciliation engine: it validates proposed receipts
// against current order state, applies them atomically and derives both
// the receipt's and the order's status.
type Service struct {
	repo      Repository
	orders    purchase_order.Repository
	vendors   VendorChecker
	numerator numerator.Generator
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new reconciliation engine.
func NewService(
	repo Repository,
	orders purchase_order.Repository,
	vendors VendorChecker,
	gen numerator.Generator,
	txManager tx.Manager,
	auditor audit.Recorder,
) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		orders:    orders,
		vendors:   vendors,
		numerator: gen,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Commit validates and applies a receipt. All validation happens before
// any mutation; on a concurrency conflict the whole cycle retries a
// bounded number of times against fresh order state.
func (s *Service) Commit(ctx context.Context, in CommitInput) (*CommitResult, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	cfg := numerator.DefaultConfig(NumberPrefix)
	number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	var result *CommitResult
	for attempt := 1; ; attempt++ {
		result, err = s.commitOnce(ctx, in, number)
		if err == nil {
			break
		}
		if !apperror.IsConcurrentModification(err) || attempt >= maxCommitAttempts {
			return nil, err
		}
		logger.Warn(ctx, "receipt commit conflicted, retrying",
			"order_id", in.OrderID,
			"attempt", attempt)
	}

	if auditErr := s.auditor.Record(ctx, audit.Entry{
		EntityType: AuditEntityType,
		EntityID:   result.Receive.ID,
		Action:     audit.ActionCommit,
		Payload:    result.Receive,
	}); auditErr != nil {
		logger.Warn(ctx, "audit record failed", "error", auditErr)
	}

	logger.Info(ctx, "purchase receive committed",
		"id", result.Receive.ID,
		"number", result.Receive.Number,
		"order_id", in.OrderID,
		"lines", len(result.Receive.Lines))

	return result, nil
}

// validateInput checks everything that does not depend on order state.
func (s *Service) validateInput(ctx context.Context, in CommitInput) error {
	if len(in.OrderLines) == 0 && len(in.ExtraLines) == 0 {
		return &apperror.AppError{
			Code:       apperror.CodeEmptyReceipt,
			Message:    "a receipt must move at least one unit",
			HTTPStatus: 422,
		}
	}

	if in.OrderID == nil && len(in.OrderLines) > 0 {
		return apperror.NewValidation("order-linked lines require an order reference").
			WithDetail("field", "orderId")
	}

	if id.IsNil(in.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}
	exists, err := s.vendors.Exists(ctx, in.VendorID)
	if err != nil {
		return fmt.Errorf("check vendor: %w", err)
	}
	if !exists {
		return apperror.NewNotFound("vendor", in.VendorID.String())
	}

	seen := make(map[id.ID]struct{}, len(in.OrderLines))
	for _, li := range in.OrderLines {
		if li.Quantity <= 0 {
			return apperror.NewValidation("received quantity must be a positive integer").
				WithDetail("order_line_id", li.OrderLineID.String())
		}
		if _, dup := seen[li.OrderLineID]; dup {
			return apperror.NewDuplicateLine(li.OrderLineID.String())
		}
		seen[li.OrderLineID] = struct{}{}
	}

	for i, li := range in.ExtraLines {
		if li.Title == "" || li.SKU == "" {
			return apperror.NewValidation("extra line title and SKU are required").
				WithDetail("lineNo", i+1)
		}
		if li.Quantity <= 0 {
			return apperror.NewValidation("extra line quantity must be a positive integer").
				WithDetail("lineNo", i+1)
		}
		if li.PurchasePrice.IsNegative() {
			return apperror.NewValidation("extra line purchase price must not be negative").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// commitOnce runs one validate-then-commit cycle in a single transaction.
func (s *Service) commitOnce(ctx context.Context, in CommitInput, number string) (*CommitResult, error) {
	rcv := NewPurchaseReceive(in.OrderID, in.VendorID)
	rcv.Number = number
	if !in.Date.IsZero() {
		rcv.Date = in.Date
	}
	rcv.Notes = in.Notes

	var order *purchase_order.PurchaseOrder

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		lines := make([]ReceiveLine, 0, len(in.OrderLines)+len(in.ExtraLines))
		fulfillsAll := true

		if in.OrderID != nil {
			var err error
			order, err = s.loadOrder(ctx, *in.OrderID)
			if err != nil {
				return err
			}

			if order.Status == purchase_order.StatusCancelled {
				return apperror.NewBusinessRule(apperror.CodeOrderCancelled, "cancelled order cannot receive goods").
					WithDetail("order_id", order.ID.String())
			}

			for _, li := range in.OrderLines {
				ol := order.Line(li.OrderLineID)
				if ol == nil {
					return apperror.NewNotFound("order line", li.OrderLineID.String())
				}

				// Remaining is recomputed from the state read inside this
				// transaction, never from a client-side snapshot.
				remaining := ol.Remaining()
				if remaining == 0 {
					return apperror.NewValidation("order line is fully received").
						WithDetail("order_line_id", li.OrderLineID.String())
				}
				if li.Quantity > remaining {
					return apperror.NewOverReceipt(li.OrderLineID.String(), li.Quantity, remaining)
				}
				if li.Quantity < remaining {
					fulfillsAll = false
				}

				ol.ReceivedQty += li.Quantity
				lines = append(lines, NewOrderLinkedLine(
					ol.LineID, ol.Title, ol.SKU,
					li.Quantity, ol.UnitPrice, li.SalePrice,
					li.ConditionID, li.BrandID,
				))
			}
		}

		for _, li := range in.ExtraLines {
			lines = append(lines, NewExtraLine(
				li.Title, li.SKU, li.Quantity,
				li.PurchasePrice, li.SalePrice,
				li.ConditionID, li.BrandID,
			))
		}

		rcv.AttachLines(lines)
		if fulfillsAll {
			rcv.Status = StatusCompleted
		} else {
			rcv.Status = StatusPartially
		}

		if err := rcv.Validate(ctx); err != nil {
			return err
		}

		if order != nil {
			order.RecalcStatus()
			// The version check here serializes commits per order: a
			// concurrent receipt bumps the version and this update reports
			// a conflict instead of jointly over-receiving.
			if err := s.orders.Update(ctx, order); err != nil {
				return err
			}
			if err := s.orders.SaveLines(ctx, order.ID, order.Lines); err != nil {
				return fmt.Errorf("save order lines: %w", err)
			}
		}

		if err := s.repo.Append(ctx, rcv); err != nil {
			return fmt.Errorf("append receive: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CommitResult{Order: order, Receive: rcv}, nil
}

func (s *Service) loadOrder(ctx context.Context, orderID id.ID) (*purchase_order.PurchaseOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.orders.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	order.Lines = lines
	return order, nil
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseReceive, error) {
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

// GetByNumber retrieves a receipt by its document number, with lines.
func (s *Service) GetByNumber(ctx context.Context, number string) (*PurchaseReceive, error) {
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

// List retrieves receipts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseReceive], error) {
	return s.repo.List(ctx, filter)
}
