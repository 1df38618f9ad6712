package purchase_order

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/numerator"
	"procura/internal/core/types"
	"procura/internal/domain"
)

type memOrderRepo struct {
	orders map[id.ID]*PurchaseOrder
	lines  map[id.ID][]OrderLine
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[id.ID]*PurchaseOrder),
		lines:  make(map[id.ID][]OrderLine),
	}
}

func (r *memOrderRepo) Create(ctx context.Context, doc *PurchaseOrder) error {
	cp := *doc
	cp.Lines = nil
	r.orders[doc.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, ok := r.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *memOrderRepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	for _, doc := range r.orders {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (r *memOrderRepo) Update(ctx context.Context, doc *PurchaseOrder) error {
	if _, ok := r.orders[doc.ID]; !ok {
		return apperror.NewNotFound("purchase order", doc.ID.String())
	}
	doc.SetVersion(doc.Version + 1)
	cp := *doc
	cp.Lines = nil
	r.orders[doc.ID] = &cp
	return nil
}

func (r *memOrderRepo) Delete(ctx context.Context, docID id.ID) error {
	doc, ok := r.orders[docID]
	if !ok {
		return apperror.NewNotFound("purchase order", docID.String())
	}
	doc.DeletionMark = true
	return nil
}

func (r *memOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]OrderLine, error) {
	out := make([]OrderLine, len(r.lines[docID]))
	copy(out, r.lines[docID])
	return out, nil
}

func (r *memOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []OrderLine) error {
	cp := make([]OrderLine, len(lines))
	copy(cp, lines)
	r.lines[docID] = cp
	return nil
}

func (r *memOrderRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return domain.ListResult[*PurchaseOrder]{}, nil
}

type fakeRefChecker struct {
	referenced bool
}

func (f fakeRefChecker) OrderReferenced(ctx context.Context, orderID id.ID) (bool, error) {
	return f.referenced, nil
}

type passTxManager struct {
	readOnlyCalls int
}

func (m *passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *passTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnlyCalls++
	return fn(ctx)
}

func newOrderService(refs fakeRefChecker) (*Service, *memOrderRepo) {
	repo := newMemOrderRepo()
	svc := NewService(repo, refs, &numerator.MockGenerator{}, &passTxManager{})
	return svc, repo
}

func newDraftOrder() *PurchaseOrder {
	o := NewPurchaseOrder(id.New(), TermNet30)
	o.AddLine("Laptop Stand", "B00LS-0003", 3, types.MustMoney("35.00"))
	return o
}

func TestServiceCreate_AssignsNumber(t *testing.T) {
	svc, repo := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))

	assert.True(t, strings.HasPrefix(doc.Number, NumberPrefix+"-"), "number = %s", doc.Number)
	assert.Len(t, repo.lines[doc.ID], 1)

	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestServiceCreate_KeepsExplicitNumber(t *testing.T) {
	svc, _ := newOrderService(fakeRefChecker{})

	doc := newDraftOrder()
	doc.Number = "PO-IMPORT-7"
	require.NoError(t, svc.Create(context.Background(), doc))
	assert.Equal(t, "PO-IMPORT-7", doc.Number)
}

func TestServiceCreate_RejectsPrereceivedLines(t *testing.T) {
	svc, _ := newOrderService(fakeRefChecker{})

	doc := newDraftOrder()
	doc.Lines[0].ReceivedQty = 1

	err := svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestServiceApprove(t *testing.T) {
	svc, _ := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))

	approved, err := svc.Approve(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	// approving twice is a business rule violation
	_, err = svc.Approve(ctx, doc.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestServiceCancel(t *testing.T) {
	svc, repo := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))

	cancelled, err := svc.Cancel(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// cancelling again is a no-op
	again, err := svc.Cancel(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, again.Status)

	// a touched order cannot be cancelled
	other := newDraftOrder()
	require.NoError(t, svc.Create(ctx, other))
	lines := repo.lines[other.ID]
	lines[0].ReceivedQty = 1
	repo.lines[other.ID] = lines

	_, err = svc.Cancel(ctx, other.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestServiceDelete_RejectsReferencedOrder(t *testing.T) {
	svc, _ := newOrderService(fakeRefChecker{referenced: true})
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))

	err := svc.Delete(ctx, doc.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderReferenced, appErr.Code)
}

func TestServiceDelete_Unreferenced(t *testing.T) {
	svc, repo := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))
	require.NoError(t, svc.Delete(ctx, doc.ID))
	assert.True(t, repo.orders[doc.ID].DeletionMark)
}

func TestServiceGetRemaining(t *testing.T) {
	svc, repo := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	doc.AddLine("USB-C Hub", "B00UC-0002", 5, types.MustMoney("49.90"))
	require.NoError(t, svc.Create(ctx, doc))

	lines := repo.lines[doc.ID]
	lines[0].ReceivedQty = 3
	repo.lines[doc.ID] = lines

	rem, err := svc.GetRemaining(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, rem, 1)
	assert.Equal(t, int64(5), rem[0].Remaining)
}

func TestServiceGetByNumber(t *testing.T) {
	svc, _ := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	doc.Number = "PO-2026-00042"
	require.NoError(t, svc.Create(ctx, doc))

	found, err := svc.GetByNumber(ctx, "PO-2026-00042")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)
	require.Len(t, found.Lines, 1)

	_, err = svc.GetByNumber(ctx, "PO-2026-99999")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestServiceApprove_ReturnsUpdatedVersion(t *testing.T) {
	svc, repo := newOrderService(fakeRefChecker{})
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))

	approved, err := svc.Approve(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, repo.orders[doc.ID].Version, approved.Version,
		"returned document must carry the version the update produced")
	assert.Equal(t, 2, approved.Version)
}

func TestServiceReads_UseReadOnlyTransaction(t *testing.T) {
	repo := newMemOrderRepo()
	txm := &passTxManager{}
	svc := NewService(repo, fakeRefChecker{}, &numerator.MockGenerator{}, txm)
	ctx := context.Background()

	doc := newDraftOrder()
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.GetTotals(ctx, doc.ID)
	require.NoError(t, err)
	_, err = svc.GetRemaining(ctx, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, txm.readOnlyCalls)
}
