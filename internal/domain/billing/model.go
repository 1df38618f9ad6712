// Package billing projects committed receipts into billable documents.
package billing

import (
	"procura/internal/core/id"
	"procura/internal/core/types"
)

// BillLine is an exact copy of one receive line: quantities and prices
// are taken verbatim, never re-derived from the originating order.
type BillLine struct {
	Label     string      `json:"label"`
	SKU       string      `json:"sku,omitempty"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Total     types.Money `json:"total"`
}

// Bill is an invoice-like projection of a single receipt. It is generated
// on demand and not persisted by this core.
type Bill struct {
	VendorID  id.ID       `json:"vendorId"`
	ReceiveID id.ID       `json:"receiveId"`
	Number    string      `json:"number"`
	Lines     []BillLine  `json:"lines"`
	Total     types.Money `json:"total"`
}
