package dto

import (
	"time"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/documents/purchase_order"
)

// --- Request DTOs ---

// CreatePurchaseOrderRequest represents a request to create a purchase order.
type CreatePurchaseOrderRequest struct {
	Number       string                     `json:"number,omitempty"`
	Date         *time.Time                 `json:"date,omitempty"`
	VendorID     string                     `json:"vendorId" binding:"required"`
	ExpectedDate *time.Time                 `json:"expectedDate,omitempty"`
	PaymentTerm  string                     `json:"paymentTerm" binding:"required"`
	Notes        string                     `json:"notes,omitempty"`
	Lines        []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineRequest represents a line in a create request.
type PurchaseOrderLineRequest struct {
	Title      string `json:"title" binding:"required"`
	SKU        string `json:"sku,omitempty"`
	OrderedQty int64  `json:"orderedQty" binding:"required,gt=0"`
	UnitPrice  string `json:"unitPrice" binding:"required"`
}

// ToEntity converts the request to a domain entity.
func (r *CreatePurchaseOrderRequest) ToEntity() (*purchase_order.PurchaseOrder, error) {
	vendorID, err := id.Parse(r.VendorID)
	if err != nil {
		return nil, apperror.NewValidation("invalid vendor id").
			WithDetail("field", "vendorId")
	}

	doc := purchase_order.NewPurchaseOrder(vendorID, purchase_order.PaymentTerm(r.PaymentTerm))
	doc.Number = r.Number
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.ExpectedDate = r.ExpectedDate
	doc.Notes = r.Notes

	for i, line := range r.Lines {
		price, err := types.NewMoneyFromString(line.UnitPrice)
		if err != nil {
			return nil, apperror.NewValidation("invalid unit price").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		doc.AddLine(line.Title, line.SKU, line.OrderedQty, price)
	}

	return doc, nil
}

// PurchaseOrderListQuery filters purchase order lists.
type PurchaseOrderListQuery struct {
	ListQuery
	VendorID string     `form:"vendorId"`
	Status   string     `form:"status"`
	DateFrom *time.Time `form:"dateFrom"`
	DateTo   *time.Time `form:"dateTo"`
}

// ToFilter converts query params to a domain filter.
func (q *PurchaseOrderListQuery) ToFilter() (purchase_order.ListFilter, error) {
	f := purchase_order.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
	}

	if q.VendorID != "" {
		vendorID, err := id.Parse(q.VendorID)
		if err != nil {
			return f, apperror.NewValidation("invalid vendor id").
				WithDetail("field", "vendorId")
		}
		f.VendorID = &vendorID
	}

	if q.Status != "" {
		status := purchase_order.Status(q.Status)
		f.Status = &status
	}

	return f, nil
}

// --- Response DTOs ---

// PurchaseOrderResponse contains purchase order fields.
type PurchaseOrderResponse struct {
	BaseResponse
	Number       string                      `json:"number"`
	Date         time.Time                   `json:"date"`
	VendorID     string                      `json:"vendorId"`
	ExpectedDate *time.Time                  `json:"expectedDate,omitempty"`
	PaymentTerm  string                      `json:"paymentTerm"`
	Status       string                      `json:"status"`
	Notes        string                      `json:"notes,omitempty"`
	Lines        []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// PurchaseOrderLineResponse contains order line fields.
type PurchaseOrderLineResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	Title       string      `json:"title"`
	SKU         string      `json:"sku,omitempty"`
	OrderedQty  int64       `json:"orderedQty"`
	ReceivedQty int64       `json:"receivedQty"`
	Remaining   int64       `json:"remaining"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// FromPurchaseOrder creates PurchaseOrderResponse from a domain entity.
func FromPurchaseOrder(doc *purchase_order.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		BaseResponse: FromBaseDocument(doc.BaseDocument),
		Number:       doc.Number,
		Date:         doc.Date,
		VendorID:     doc.VendorID.String(),
		ExpectedDate: doc.ExpectedDate,
		PaymentTerm:  string(doc.PaymentTerm),
		Status:       string(doc.Status),
		Notes:        doc.Notes,
	}

	for _, l := range doc.Lines {
		resp.Lines = append(resp.Lines, PurchaseOrderLineResponse{
			LineID:      l.LineID.String(),
			LineNo:      l.LineNo,
			Title:       l.Title,
			SKU:         l.SKU,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
			Remaining:   l.Remaining(),
			UnitPrice:   l.UnitPrice,
		})
	}

	return resp
}

// FromPurchaseOrders maps a slice of orders (lines omitted in lists).
func FromPurchaseOrders(items []*purchase_order.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(items))
	for _, doc := range items {
		out = append(out, FromPurchaseOrder(doc))
	}
	return out
}

// RemainingResponse lists outstanding quantities per order line.
type RemainingResponse struct {
	OrderID string                         `json:"orderId"`
	Lines   []purchase_order.LineRemaining `json:"lines"`
}

// TotalsResponse carries the ordered/received/remaining money rollups.
type TotalsResponse struct {
	OrderID string                `json:"orderId"`
	Totals  purchase_order.Totals `json:"totals"`
}
