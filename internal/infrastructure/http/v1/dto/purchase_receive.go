package dto

import (
	"time"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/documents/purchase_receive"
)

// --- Request DTOs ---

// CommitReceiveRequest represents a request to commit a receipt.
type CommitReceiveRequest struct {
	OrderID    string                    `json:"orderId,omitempty"`
	VendorID   string                    `json:"vendorId" binding:"required"`
	Date       *time.Time                `json:"date,omitempty"`
	Notes      string                    `json:"notes,omitempty"`
	OrderLines []ReceiveOrderLineRequest `json:"orderLines,omitempty"`
	ExtraLines []ReceiveExtraLineRequest `json:"extraLines,omitempty"`
}

// ReceiveOrderLineRequest receives quantity against one order line.
type ReceiveOrderLineRequest struct {
	OrderLineID string  `json:"orderLineId" binding:"required"`
	Quantity    int64   `json:"quantity" binding:"required,gt=0"`
	SalePrice   *string `json:"salePrice,omitempty"`
	ConditionID string  `json:"conditionId" binding:"required"`
	BrandID     *string `json:"brandId,omitempty"`
}

// ReceiveExtraLineRequest receives an unordered item.
type ReceiveExtraLineRequest struct {
	Title         string  `json:"title" binding:"required"`
	SKU           string  `json:"sku" binding:"required"`
	Quantity      int64   `json:"quantity" binding:"required,gt=0"`
	PurchasePrice string  `json:"purchasePrice" binding:"required"`
	SalePrice     *string `json:"salePrice,omitempty"`
	ConditionID   string  `json:"conditionId" binding:"required"`
	BrandID       *string `json:"brandId,omitempty"`
}

// ToInput converts the request to the engine's commit input.
func (r *CommitReceiveRequest) ToInput() (purchase_receive.CommitInput, error) {
	in := purchase_receive.CommitInput{Notes: r.Notes}

	if r.OrderID != "" {
		orderID, err := id.Parse(r.OrderID)
		if err != nil {
			return in, apperror.NewValidation("invalid order id").
				WithDetail("field", "orderId")
		}
		in.OrderID = &orderID
	}

	vendorID, err := id.Parse(r.VendorID)
	if err != nil {
		return in, apperror.NewValidation("invalid vendor id").
			WithDetail("field", "vendorId")
	}
	in.VendorID = vendorID

	if r.Date != nil {
		in.Date = *r.Date
	}

	for i, line := range r.OrderLines {
		li, err := line.toInput()
		if err != nil {
			return in, apperror.NewValidation(err.Error()).
				WithDetail("field", "orderLines").
				WithDetail("lineNo", i+1)
		}
		in.OrderLines = append(in.OrderLines, li)
	}

	for i, line := range r.ExtraLines {
		li, err := line.toInput()
		if err != nil {
			return in, apperror.NewValidation(err.Error()).
				WithDetail("field", "extraLines").
				WithDetail("lineNo", i+1)
		}
		in.ExtraLines = append(in.ExtraLines, li)
	}

	return in, nil
}

func (r ReceiveOrderLineRequest) toInput() (purchase_receive.OrderLineInput, error) {
	var out purchase_receive.OrderLineInput

	orderLineID, err := id.Parse(r.OrderLineID)
	if err != nil {
		return out, err
	}
	conditionID, err := id.Parse(r.ConditionID)
	if err != nil {
		return out, err
	}

	out = purchase_receive.OrderLineInput{
		OrderLineID: orderLineID,
		Quantity:    r.Quantity,
		ConditionID: conditionID,
	}

	if r.SalePrice != nil {
		price, err := types.NewMoneyFromString(*r.SalePrice)
		if err != nil {
			return out, err
		}
		out.SalePrice = &price
	}
	if r.BrandID != nil {
		brandID, err := id.Parse(*r.BrandID)
		if err != nil {
			return out, err
		}
		out.BrandID = &brandID
	}

	return out, nil
}

func (r ReceiveExtraLineRequest) toInput() (purchase_receive.ExtraLineInput, error) {
	var out purchase_receive.ExtraLineInput

	conditionID, err := id.Parse(r.ConditionID)
	if err != nil {
		return out, err
	}
	purchasePrice, err := types.NewMoneyFromString(r.PurchasePrice)
	if err != nil {
		return out, err
	}

	out = purchase_receive.ExtraLineInput{
		Title:         r.Title,
		SKU:           r.SKU,
		Quantity:      r.Quantity,
		PurchasePrice: purchasePrice,
		ConditionID:   conditionID,
	}

	if r.SalePrice != nil {
		price, err := types.NewMoneyFromString(*r.SalePrice)
		if err != nil {
			return out, err
		}
		out.SalePrice = &price
	}
	if r.BrandID != nil {
		brandID, err := id.Parse(*r.BrandID)
		if err != nil {
			return out, err
		}
		out.BrandID = &brandID
	}

	return out, nil
}

// ReceiveListQuery filters receipt lists.
type ReceiveListQuery struct {
	ListQuery
	OrderID  string     `form:"orderId"`
	VendorID string     `form:"vendorId"`
	DateFrom *time.Time `form:"dateFrom"`
	DateTo   *time.Time `form:"dateTo"`
}

// ToFilter converts query params to a domain filter.
func (q *ReceiveListQuery) ToFilter() (purchase_receive.ListFilter, error) {
	f := purchase_receive.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
	}

	if q.OrderID != "" {
		orderID, err := id.Parse(q.OrderID)
		if err != nil {
			return f, apperror.NewValidation("invalid order id").
				WithDetail("field", "orderId")
		}
		f.OrderID = &orderID
	}

	if q.VendorID != "" {
		vendorID, err := id.Parse(q.VendorID)
		if err != nil {
			return f, apperror.NewValidation("invalid vendor id").
				WithDetail("field", "vendorId")
		}
		f.VendorID = &vendorID
	}

	return f, nil
}

// --- Response DTOs ---

// PurchaseReceiveResponse contains receipt fields.
type PurchaseReceiveResponse struct {
	BaseResponse
	Number      string                        `json:"number"`
	Date        time.Time                     `json:"date"`
	OrderID     *string                       `json:"orderId,omitempty"`
	VendorID    string                        `json:"vendorId"`
	Status      string                        `json:"status"`
	TotalAmount types.Money                   `json:"totalAmount"`
	Notes       string                        `json:"notes,omitempty"`
	Lines       []PurchaseReceiveLineResponse `json:"lines,omitempty"`
}

// PurchaseReceiveLineResponse contains receive line fields.
type PurchaseReceiveLineResponse struct {
	LineID        string       `json:"lineId"`
	LineNo        int          `json:"lineNo"`
	Kind          string       `json:"kind"`
	OrderLineID   *string      `json:"orderLineId,omitempty"`
	Title         string       `json:"title"`
	SKU           string       `json:"sku,omitempty"`
	Quantity      int64        `json:"quantity"`
	PurchasePrice types.Money  `json:"purchasePrice"`
	SalePrice     *types.Money `json:"salePrice,omitempty"`
	ConditionID   string       `json:"conditionId"`
	BrandID       *string      `json:"brandId,omitempty"`
}

// FromPurchaseReceive creates PurchaseReceiveResponse from a domain entity.
func FromPurchaseReceive(doc *purchase_receive.PurchaseReceive) PurchaseReceiveResponse {
	resp := PurchaseReceiveResponse{
		BaseResponse: FromBaseDocument(doc.BaseDocument),
		Number:       doc.Number,
		Date:         doc.Date,
		VendorID:     doc.VendorID.String(),
		Status:       string(doc.Status),
		TotalAmount:  doc.TotalAmount,
		Notes:        doc.Notes,
	}

	if doc.OrderID != nil {
		s := doc.OrderID.String()
		resp.OrderID = &s
	}

	for _, l := range doc.Lines {
		line := PurchaseReceiveLineResponse{
			LineID:        l.LineID.String(),
			LineNo:        l.LineNo,
			Kind:          string(l.Kind),
			Title:         l.Title,
			SKU:           l.SKU,
			Quantity:      l.Quantity,
			PurchasePrice: l.PurchasePrice,
			SalePrice:     l.SalePrice,
			ConditionID:   l.ConditionID.String(),
		}
		if l.OrderLineID != nil {
			s := l.OrderLineID.String()
			line.OrderLineID = &s
		}
		if l.BrandID != nil {
			s := l.BrandID.String()
			line.BrandID = &s
		}
		resp.Lines = append(resp.Lines, line)
	}

	return resp
}

// FromPurchaseReceives maps a slice of receipts.
func FromPurchaseReceives(items []*purchase_receive.PurchaseReceive) []PurchaseReceiveResponse {
	out := make([]PurchaseReceiveResponse, 0, len(items))
	for _, doc := range items {
		out = append(out, FromPurchaseReceive(doc))
	}
	return out
}

// CommitReceiveResponse returns the committed receipt and updated order.
type CommitReceiveResponse struct {
	Receive PurchaseReceiveResponse `json:"receive"`
	Order   *PurchaseOrderResponse  `json:"order,omitempty"`
}

// FromCommitResult creates a CommitReceiveResponse.
func FromCommitResult(r *purchase_receive.CommitResult) CommitReceiveResponse {
	resp := CommitReceiveResponse{
		Receive: FromPurchaseReceive(r.Receive),
	}
	if r.Order != nil {
		order := FromPurchaseOrder(r.Order)
		resp.Order = &order
	}
	return resp
}
