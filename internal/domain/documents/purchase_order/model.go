// Package purchase_order provides the PurchaseOrder document: the unit
// against which delivery fulfillment is measured.
package purchase_order

import (
	"context"
	"time"

	"procura/internal/core/apperror"
	"procura/internal/core/entity"
	"procura/internal/core/id"
	"procura/internal/core/types"
)

// PaymentTerm defines when payment for an order is due.
type PaymentTerm string

const (
	TermAdvance PaymentTerm = "advance"
	TermNet15   PaymentTerm = "net15"
	TermNet30   PaymentTerm = "net30"
	TermNet45   PaymentTerm = "net45"
)

// ValidPaymentTerm reports whether t is a known payment term.
func ValidPaymentTerm(t PaymentTerm) bool {
	switch t {
	case TermAdvance, TermNet15, TermNet30, TermNet45:
		return true
	}
	return false
}

// Status is the fulfillment state of a purchase order.
// It is derived from line-level received quantities and is never set
// directly by callers; only the reconciliation commit moves it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusPartially Status = "partially"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// PurchaseOrder represents a purchase order document.
type PurchaseOrder struct {
	entity.Document

	// VendorID references the supplying vendor
	VendorID id.ID `db:"vendor_id" json:"vendorId"`

	// ExpectedDate is the expected delivery date
	ExpectedDate *time.Time `db:"expected_date" json:"expectedDate,omitempty"`

	// PaymentTerm defines the payment schedule
	PaymentTerm PaymentTerm `db:"payment_term" json:"paymentTerm"`

	// Status is derived from line fulfillment, see RecalcStatus
	Status Status `db:"status" json:"status"`

	// Lines is the ordered goods table part
	Lines []OrderLine `db:"-" json:"lines"`
}

// OrderLine represents one product entry on a purchase order.
type OrderLine struct {
	// LineID is the stable line identity receipts reference
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// Title is the product title as ordered
	Title string `db:"title" json:"title"`

	// SKU is an external ASIN-style product code (optional)
	SKU string `db:"sku" json:"sku,omitempty"`

	// OrderedQty is the quantity ordered (positive)
	OrderedQty int64 `db:"ordered_qty" json:"orderedQty"`

	// ReceivedQty accumulates across receipts; 0 <= ReceivedQty <= OrderedQty
	ReceivedQty int64 `db:"received_qty" json:"receivedQty"`

	// UnitPrice is the purchase price per unit (non-negative)
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// Remaining returns the quantity still to be received for this line,
// floored at zero. Always computed from current state, never cached.
func (l OrderLine) Remaining() int64 {
	if r := l.OrderedQty - l.ReceivedQty; r > 0 {
		return r
	}
	return 0
}

// NewPurchaseOrder creates a new purchase order document.
func NewPurchaseOrder(vendorID id.ID, term PaymentTerm) *PurchaseOrder {
	return &PurchaseOrder{
		Document:    entity.NewDocument(),
		VendorID:    vendorID,
		PaymentTerm: term,
		Status:      StatusPending,
		Lines:       make([]OrderLine, 0),
	}
}

// AddLine appends an order line.
func (o *PurchaseOrder) AddLine(title, sku string, orderedQty int64, unitPrice types.Money) {
	o.Lines = append(o.Lines, OrderLine{
		LineID:     id.New(),
		LineNo:     len(o.Lines) + 1,
		Title:      title,
		SKU:        sku,
		OrderedQty: orderedQty,
		UnitPrice:  unitPrice,
	})
}

// Line returns the line with the given stable identity, or nil.
func (o *PurchaseOrder) Line(lineID id.ID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].LineID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}

// Touched reports whether any quantity has ever been received on this order.
func (o *PurchaseOrder) Touched() bool {
	for _, l := range o.Lines {
		if l.ReceivedQty > 0 {
			return true
		}
	}
	return false
}

// RecalcStatus rederives the order status from line-level state.
// cancelled is terminal and is left untouched; pending/approved are kept
// while no line has been received.
func (o *PurchaseOrder) RecalcStatus() {
	if o.Status == StatusCancelled {
		return
	}

	if !o.Touched() {
		if o.Status != StatusPending && o.Status != StatusApproved {
			o.Status = StatusPending
		}
		return
	}

	for _, l := range o.Lines {
		if l.ReceivedQty < l.OrderedQty {
			o.Status = StatusPartially
			return
		}
	}
	o.Status = StatusCompleted
}

// Totals holds monetary rollups over a set of order lines.
type Totals struct {
	Ordered   types.Money `json:"ordered"`
	Received  types.Money `json:"received"`
	Remaining types.Money `json:"remaining"`
}

// Totals computes ordered/received/remaining money sums over the order's
// lines. Received + Remaining always equals Ordered for a consistent
// snapshot.
func (o *PurchaseOrder) Totals() Totals {
	t := Totals{
		Ordered:   types.Zero(),
		Received:  types.Zero(),
		Remaining: types.Zero(),
	}
	for _, l := range o.Lines {
		t.Ordered = t.Ordered.Add(l.UnitPrice.Mul(types.MoneyFromInt(l.OrderedQty)))
		t.Received = t.Received.Add(l.UnitPrice.Mul(types.MoneyFromInt(l.ReceivedQty)))
		t.Remaining = t.Remaining.Add(l.UnitPrice.Mul(types.MoneyFromInt(l.Remaining())))
	}
	return t
}

// LineRemaining describes the outstanding quantity of one order line.
type LineRemaining struct {
	LineID    id.ID  `json:"lineId"`
	Title     string `json:"title"`
	SKU       string `json:"sku,omitempty"`
	Remaining int64  `json:"remaining"`
}

// RemainingLines returns the outstanding quantity per line, excluding
// fully received lines entirely: a line with nothing left to receive is
// not an eligible target for a new receipt.
func (o *PurchaseOrder) RemainingLines() []LineRemaining {
	out := make([]LineRemaining, 0, len(o.Lines))
	for _, l := range o.Lines {
		if r := l.Remaining(); r > 0 {
			out = append(out, LineRemaining{
				LineID:    l.LineID,
				Title:     l.Title,
				SKU:       l.SKU,
				Remaining: r,
			})
		}
	}
	return out
}

// Validate implements entity.Validatable.
func (o *PurchaseOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}

	if !ValidPaymentTerm(o.PaymentTerm) {
		return apperror.NewValidation("unknown payment term").
			WithDetail("field", "paymentTerm").
			WithDetail("value", string(o.PaymentTerm))
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, l := range o.Lines {
		if l.Title == "" {
			return apperror.NewValidation("line title is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if l.OrderedQty <= 0 {
			return apperror.NewValidation("ordered quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if l.ReceivedQty < 0 || l.ReceivedQty > l.OrderedQty {
			return apperror.NewValidation("received quantity out of range").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
