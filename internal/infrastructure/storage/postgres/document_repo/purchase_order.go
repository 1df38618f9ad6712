package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"procura/internal/core/id"
	"procura/internal/domain"
	"procura/internal/domain/documents/purchase_order"
	"procura/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "doc_purchase_orders"
	purchaseOrderLinesTable = "doc_purchase_order_lines"
)

// Compile-time check that PurchaseOrderRepo implements purchase_order.Repository.
var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchase_order.PurchaseOrder]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase_order.PurchaseOrder](
			txManager,
			purchaseOrdersTable,
			postgres.ExtractDBColumns[purchase_order.PurchaseOrder](),
			func() *purchase_order.PurchaseOrder { return &purchase_order.PurchaseOrder{} },
		),
	}
}

// GetLines retrieves lines for a purchase order, in document order.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_order.OrderLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "title", "sku",
			"ordered_qty", "received_qty", "unit_price",
		).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase_order.OrderLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a purchase order (delete existing + insert new).
func (r *PurchaseOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase_order.OrderLine) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + purchaseOrderLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "title", "sku",
			"ordered_qty", "received_qty", "unit_price",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.Title, line.SKU,
			line.OrderedQty, line.ReceivedQty, line.UnitPrice,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves purchase orders with filtering.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (domain.ListResult[*purchase_order.PurchaseOrder], error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.VendorID != nil {
		q = q.Where(squirrel.Eq{"vendor_id": *filter.VendorID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	return r.listQuery(ctx, q, filter.ListFilter)
}
