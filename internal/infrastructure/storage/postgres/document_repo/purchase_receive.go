package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"procura/internal/core/id"
	"procura/internal/domain"
	"procura/internal/domain/documents/purchase_receive"
	"procura/internal/infrastructure/storage/postgres"
)

const (
	purchaseReceivesTable     = "doc_purchase_receives"
	purchaseReceiveLinesTable = "doc_purchase_receive_lines"
)

// Compile-time check that PurchaseReceiveRepo implements purchase_receive.Repository.
var _ purchase_receive.Repository = (*PurchaseReceiveRepo)(nil)

// PurchaseReceiveRepo implements purchase_receive.Repository. Receipts are
// append-only: the base repo's Update and Delete are intentionally not
// part of the domain contract.
type PurchaseReceiveRepo struct {
	*BaseDocumentRepo[*purchase_receive.PurchaseReceive]
}

// NewPurchaseReceiveRepo creates a new purchase receive repository.
func NewPurchaseReceiveRepo(txManager *postgres.TxManager) *PurchaseReceiveRepo {
	return &PurchaseReceiveRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase_receive.PurchaseReceive](
			txManager,
			purchaseReceivesTable,
			postgres.ExtractDBColumns[purchase_receive.PurchaseReceive](),
			func() *purchase_receive.PurchaseReceive { return &purchase_receive.PurchaseReceive{} },
		),
	}
}

// Append persists a receipt together with all of its lines.
func (r *PurchaseReceiveRepo) Append(ctx context.Context, doc *purchase_receive.PurchaseReceive) error {
	if err := r.Create(ctx, doc); err != nil {
		return err
	}

	if len(doc.Lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseReceiveLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "kind", "order_line_id",
			"title", "sku", "quantity", "purchase_price", "sale_price",
			"condition_id", "brand_id",
		)

	for _, line := range doc.Lines {
		q = q.Values(
			line.LineID, doc.ID, line.LineNo, line.Kind, line.OrderLineID,
			line.Title, line.SKU, line.Quantity, line.PurchasePrice, line.SalePrice,
			line.ConditionID, line.BrandID,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// GetLines retrieves lines for a receipt, in document order.
func (r *PurchaseReceiveRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_receive.ReceiveLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "kind", "order_line_id",
			"title", "sku", "quantity", "purchase_price", "sale_price",
			"condition_id", "brand_id",
		).
		From(purchaseReceiveLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase_receive.ReceiveLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// OrderReferenced reports whether any receipt references the order.
func (r *PurchaseReceiveRepo) OrderReferenced(ctx context.Context, orderID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From(purchaseReceivesTable).
		Where(squirrel.Eq{"order_id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("order referenced: %w", err)
	}

	return true, nil
}

// List retrieves receipts with filtering.
func (r *PurchaseReceiveRepo) List(ctx context.Context, filter purchase_receive.ListFilter) (domain.ListResult[*purchase_receive.PurchaseReceive], error) {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.OrderID != nil {
		q = q.Where(squirrel.Eq{"order_id": *filter.OrderID})
	}

	if filter.VendorID != nil {
		q = q.Where(squirrel.Eq{"vendor_id": *filter.VendorID})
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
