package purchase_order

import (
	"context"
	"time"

	"procura/internal/core/id"
	"procura/internal/domain"
)

// Repository defines storage operations for purchase order documents.
type Repository interface {
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)

	// Update persists header fields with an optimistic version check and
	// returns apperror.CodeConcurrentModification when the stored version
	// has moved since the document was loaded.
	Update(ctx context.Context, doc *PurchaseOrder) error

	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]OrderLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []OrderLine) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)
}

// ListFilter filters purchase order lists.
type ListFilter struct {
	domain.ListFilter

	VendorID *id.ID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
