// Package purchase_receive provides the PurchaseReceive document and the
// reconciliation engine that applies receipts against purchase orders.
package purchase_receive

import (
	"context"

	"procura/internal/core/apperror"
	"procura/internal/core/entity"
	"procura/internal/core/id"
	"procura/internal/core/types"
)

// Status describes how this single receipt relates to the order lines it
// touches. It is distinct from the order's own aggregate status.
type Status string

const (
	// StatusPartially means at least one order-linked line in this receipt
	// left some of its remaining quantity outstanding.
	StatusPartially Status = "partially"

	// StatusCompleted means every order-linked line in this receipt consumed
	// the line's full remaining quantity at commit time. Receipts with only
	// extra lines are completed by definition.
	StatusCompleted Status = "completed"
)

// LineKind discriminates the two receive line variants.
type LineKind string

const (
	// KindOrder marks a line fulfilling a specific order line.
	KindOrder LineKind = "order"

	// KindExtra marks an unordered item received alongside (or without)
	// an order.
	KindExtra LineKind = "extra"
)

// ReceiveLine is one entry on a receipt. The Kind tag decides which shape
// the line has; use NewOrderLinkedLine / NewExtraLine to build valid
// values.
type ReceiveLine struct {
	LineID id.ID    `db:"line_id" json:"lineId"`
	LineNo int      `db:"line_no" json:"lineNo"`
	Kind   LineKind `db:"kind" json:"kind"`

	// OrderLineID is set only for Kind == KindOrder
	OrderLineID *id.ID `db:"order_line_id" json:"orderLineId,omitempty"`

	// Title and SKU are copied from the order line, or supplied by the
	// caller for extra lines
	Title string `db:"title" json:"title"`
	SKU   string `db:"sku" json:"sku,omitempty"`

	// Quantity received in this event (positive)
	Quantity int64 `db:"quantity" json:"quantity"`

	// PurchasePrice is fixed at commit time and immutable thereafter
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SalePrice is an optional resale price for inventory classification
	SalePrice *types.Money `db:"sale_price" json:"salePrice,omitempty"`

	// ConditionID and BrandID are opaque reference identities
	ConditionID id.ID  `db:"condition_id" json:"conditionId"`
	BrandID     *id.ID `db:"brand_id" json:"brandId,omitempty"`
}

// NewOrderLinkedLine builds a line fulfilling an order line.
func NewOrderLinkedLine(orderLineID id.ID, title, sku string, quantity int64, purchasePrice types.Money, salePrice *types.Money, conditionID id.ID, brandID *id.ID) ReceiveLine {
	ref := orderLineID
	return ReceiveLine{
		LineID:        id.New(),
		Kind:          KindOrder,
		OrderLineID:   &ref,
		Title:         title,
		SKU:           sku,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		ConditionID:   conditionID,
		BrandID:       brandID,
	}
}

// NewExtraLine builds a line for an unordered item.
func NewExtraLine(title, sku string, quantity int64, purchasePrice types.Money, salePrice *types.Money, conditionID id.ID, brandID *id.ID) ReceiveLine {
	return ReceiveLine{
		LineID:        id.New(),
		Kind:          KindExtra,
		Title:         title,
		SKU:           sku,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		ConditionID:   conditionID,
		BrandID:       brandID,
	}
}

// IsExtra reports whether the line is an unordered item.
func (l ReceiveLine) IsExtra() bool {
	return l.Kind == KindExtra
}

// Total returns quantity x purchase price for this line.
func (l ReceiveLine) Total() types.Money {
	return l.PurchasePrice.Mul(types.MoneyFromInt(l.Quantity))
}

// PurchaseReceive is an immutable record of one receipt event. Receipts
// are created atomically as a whole and are never updated or deleted;
// later receipts supersede only the order's cumulative counters.
type PurchaseReceive struct {
	entity.Document

	// OrderID references the fulfilled purchase order, nil for receipts
	// of extra items only
	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`

	// VendorID is copied at creation time, not live-joined
	VendorID id.ID `db:"vendor_id" json:"vendorId"`

	// Status describes this receipt relative to the lines it touches
	Status Status `db:"status" json:"status"`

	// TotalAmount is the sum of quantity x purchase price over all lines
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Lines []ReceiveLine `db:"-" json:"lines"`
}

// NewPurchaseReceive creates a receipt shell; lines are attached by the
// reconciliation engine.
func NewPurchaseReceive(orderID *id.ID, vendorID id.ID) *PurchaseReceive {
	return &PurchaseReceive{
		Document: entity.NewDocument(),
		OrderID:  orderID,
		VendorID: vendorID,
		Lines:    make([]ReceiveLine, 0),
	}
}

// AttachLines numbers the lines and recomputes the receipt total.
func (r *PurchaseReceive) AttachLines(lines []ReceiveLine) {
	r.Lines = lines
	r.TotalAmount = types.Zero()
	for i := range r.Lines {
		r.Lines[i].LineNo = i + 1
		r.TotalAmount = r.TotalAmount.Add(r.Lines[i].Total())
	}
}

// Validate implements entity.Validatable.
func (r *PurchaseReceive) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}

	if len(r.Lines) == 0 {
		return &apperror.AppError{
			Code:       apperror.CodeEmptyReceipt,
			Message:    "a receipt must move at least one unit",
			HTTPStatus: 422,
		}
	}

	seen := make(map[id.ID]struct{}, len(r.Lines))
	for i, l := range r.Lines {
		if l.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if l.PurchasePrice.IsNegative() {
			return apperror.NewValidation("purchase price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		switch l.Kind {
		case KindOrder:
			if l.OrderLineID == nil || id.IsNil(*l.OrderLineID) {
				return apperror.NewValidation("order line reference is required").
					WithDetail("field", "lines").
					WithDetail("lineNo", i+1)
			}
			if r.OrderID == nil {
				return apperror.NewValidation("order-linked lines require an order reference").
					WithDetail("field", "orderId")
			}
			if _, dup := seen[*l.OrderLineID]; dup {
				return apperror.NewDuplicateLine(l.OrderLineID.String())
			}
			seen[*l.OrderLineID] = struct{}{}
		case KindExtra:
			if l.Title == "" || l.SKU == "" {
				return apperror.NewValidation("extra line title and SKU are required").
					WithDetail("field", "lines").
					WithDetail("lineNo", i+1)
			}
		default:
			return apperror.NewValidation("unknown line kind").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
