package purchase_receive

import (
	"context"
	"time"

	"procura/internal/core/id"
	"procura/internal/domain"
)

// Repository defines storage operations for receipts. Receipts are an
// append-only log: there are no update or delete operations.
type Repository interface {
	// Append persists a receipt with all its lines.
	Append(ctx context.Context, doc *PurchaseReceive) error

	GetByID(ctx context.Context, docID id.ID) (*PurchaseReceive, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseReceive, error)
	GetLines(ctx context.Context, docID id.ID) ([]ReceiveLine, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseReceive], error)

	// OrderReferenced reports whether any receipt references the order.
	OrderReferenced(ctx context.Context, orderID id.ID) (bool, error)
}

// ListFilter filters receipt lists.
type ListFilter struct {
	domain.ListFilter

	OrderID  *id.ID
	VendorID *id.ID
	DateFrom *time.Time
	DateTo   *time.Time
}
