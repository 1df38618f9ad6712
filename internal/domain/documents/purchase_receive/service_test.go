package purchase_receive

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/numerator"
	"procura/internal/core/types"
	"procura/internal/domain"
	"procura/internal/domain/documents/purchase_order"
)

// --- fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// lockingTxManager serializes transaction bodies the way the database
// serializes committing transactions, so concurrent commits observe
// each other's writes only at whole-transaction granularity.
type lockingTxManager struct {
	mu sync.Mutex
}

func (m *lockingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeVendors struct {
	exists bool
}

func (f fakeVendors) Exists(ctx context.Context, vendorID id.ID) (bool, error) {
	return f.exists, nil
}

// fakeOrderRepo keeps one order in memory and performs the same
// compare-and-swap on Version as the real repository's optimistic
// update. conflictsLeft injects additional transient commit conflicts.
type fakeOrderRepo struct {
	mu    sync.Mutex
	order *purchase_order.PurchaseOrder
	lines []purchase_order.OrderLine

	conflictsLeft int
	updateCalls   int
}

func (f *fakeOrderRepo) Create(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = doc
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil || f.order.ID != docID {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	cp := *f.order
	cp.Lines = nil
	return &cp, nil
}

func (f *fakeOrderRepo) GetByNumber(ctx context.Context, number string) (*purchase_order.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order != nil && f.order.Number == number {
		cp := *f.order
		cp.Lines = nil
		return &cp, nil
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (f *fakeOrderRepo) Update(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return apperror.NewConcurrentModification("purchase order", doc.ID)
	}
	if doc.Version != f.order.Version {
		return apperror.NewConcurrentModification("purchase order", doc.ID)
	}
	doc.SetVersion(doc.Version + 1)
	cp := *doc
	cp.Lines = nil
	f.order = &cp
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, docID id.ID) error { return nil }

func (f *fakeOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_order.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]purchase_order.OrderLine, len(f.lines))
	copy(out, f.lines)
	return out, nil
}

func (f *fakeOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase_order.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = make([]purchase_order.OrderLine, len(lines))
	copy(f.lines, lines)
	return nil
}

func (f *fakeOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (domain.ListResult[*purchase_order.PurchaseOrder], error) {
	return domain.ListResult[*purchase_order.PurchaseOrder]{}, nil
}

// fakeReceiveRepo is an in-memory append-only receipt store.
type fakeReceiveRepo struct {
	mu       sync.Mutex
	receives []*PurchaseReceive
}

func (f *fakeReceiveRepo) Append(ctx context.Context, doc *PurchaseReceive) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *doc
	f.receives = append(f.receives, &cp)
	return nil
}

func (f *fakeReceiveRepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseReceive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receives {
		if r.ID == docID {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("purchase receive", docID.String())
}

func (f *fakeReceiveRepo) GetByNumber(ctx context.Context, number string) (*PurchaseReceive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receives {
		if r.Number == number {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("purchase receive", number)
}

func (f *fakeReceiveRepo) GetLines(ctx context.Context, docID id.ID) ([]ReceiveLine, error) {
	r, err := f.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return r.Lines, nil
}

func (f *fakeReceiveRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseReceive], error) {
	return domain.ListResult[*PurchaseReceive]{}, nil
}

func (f *fakeReceiveRepo) OrderReferenced(ctx context.Context, orderID id.ID) (bool, error) {
	for _, r := range f.receives {
		if r.OrderID != nil && *r.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

// --- helpers ---

type engineFixture struct {
	service  *Service
	orders   *fakeOrderRepo
	receives *fakeReceiveRepo
	order    *purchase_order.PurchaseOrder
	vendorID id.ID
}

func newEngineFixture(t *testing.T, orderedQty int64) *engineFixture {
	t.Helper()

	vendorID := id.New()
	order := purchase_order.NewPurchaseOrder(vendorID, purchase_order.TermNet30)
	order.Number = "PO-2026-00001"
	order.Status = purchase_order.StatusApproved
	order.AddLine("Wireless Mouse", "B00WM-0001", orderedQty, types.MustMoney("24.99"))

	orders := &fakeOrderRepo{order: order}
	orders.SaveLines(context.Background(), order.ID, order.Lines)

	receives := &fakeReceiveRepo{}

	service := NewService(
		receives, orders,
		fakeVendors{exists: true},
		&numerator.MockGenerator{},
		fakeTxManager{},
		nil,
	)

	return &engineFixture{
		service:  service,
		orders:   orders,
		receives: receives,
		order:    order,
		vendorID: vendorID,
	}
}

func (f *engineFixture) input(qty int64) CommitInput {
	return CommitInput{
		OrderID:  &f.order.ID,
		VendorID: f.vendorID,
		OrderLines: []OrderLineInput{{
			OrderLineID: f.order.Lines[0].LineID,
			Quantity:    qty,
			ConditionID: id.New(),
		}},
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

// --- tests ---

func TestCommit_PartialThenComplete(t *testing.T) {
	f := newEngineFixture(t, 10)
	ctx := context.Background()

	res, err := f.service.Commit(ctx, f.input(4))
	require.NoError(t, err)
	assert.Equal(t, StatusPartially, res.Receive.Status)
	require.NotNil(t, res.Order)
	assert.Equal(t, purchase_order.StatusPartially, res.Order.Status)
	assert.Equal(t, int64(4), res.Order.Lines[0].ReceivedQty)
	assert.Equal(t, int64(6), res.Order.Lines[0].Remaining())
	assert.Equal(t, f.orders.order.Version, res.Order.Version,
		"returned order must carry the version the update produced")

	res, err = f.service.Commit(ctx, f.input(6))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Receive.Status)
	assert.Equal(t, purchase_order.StatusCompleted, res.Order.Status)
	assert.Equal(t, int64(0), res.Order.Lines[0].Remaining())

	assert.Len(t, f.receives.receives, 2)
}

func TestCommit_OverReceiptRejected(t *testing.T) {
	f := newEngineFixture(t, 10)
	ctx := context.Background()

	_, err := f.service.Commit(ctx, f.input(4))
	require.NoError(t, err)

	// 6 remaining, 7 requested: the whole receipt is rejected
	_, err = f.service.Commit(ctx, f.input(7))
	require.Error(t, err)
	assertCode(t, err, apperror.CodeOverReceipt)

	// order state is untouched by the failed attempt
	assert.Equal(t, int64(4), f.orders.lines[0].ReceivedQty)
	assert.Len(t, f.receives.receives, 1)
}

func TestCommit_ExactRemainingAccepted(t *testing.T) {
	f := newEngineFixture(t, 10)

	res, err := f.service.Commit(context.Background(), f.input(10))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Receive.Status)
	assert.Equal(t, purchase_order.StatusCompleted, res.Order.Status)
}

func TestCommit_FullyReceivedLineRejected(t *testing.T) {
	f := newEngineFixture(t, 10)
	ctx := context.Background()

	_, err := f.service.Commit(ctx, f.input(10))
	require.NoError(t, err)

	_, err = f.service.Commit(ctx, f.input(1))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCommit_DuplicateLineRejected(t *testing.T) {
	f := newEngineFixture(t, 10)

	in := f.input(2)
	in.OrderLines = append(in.OrderLines, in.OrderLines[0])

	_, err := f.service.Commit(context.Background(), in)
	require.Error(t, err)
	assertCode(t, err, apperror.CodeDuplicateLine)
}

func TestCommit_EmptyReceiptRejected(t *testing.T) {
	f := newEngineFixture(t, 10)

	_, err := f.service.Commit(context.Background(), CommitInput{
		OrderID:  &f.order.ID,
		VendorID: f.vendorID,
	})
	require.Error(t, err)
	assertCode(t, err, apperror.CodeEmptyReceipt)
	assert.Equal(t, 422, apperror.GetHTTPStatus(err))
}

func TestCommit_UnknownOrderLineRejected(t *testing.T) {
	f := newEngineFixture(t, 10)

	in := f.input(2)
	in.OrderLines[0].OrderLineID = id.New()

	_, err := f.service.Commit(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCommit_OrderLinesWithoutOrderRejected(t *testing.T) {
	f := newEngineFixture(t, 10)

	in := f.input(2)
	in.OrderID = nil

	_, err := f.service.Commit(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCommit_CancelledOrderRejected(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.order.Status = purchase_order.StatusCancelled
	f.orders.order = f.order

	_, err := f.service.Commit(context.Background(), f.input(2))
	require.Error(t, err)
	assertCode(t, err, apperror.CodeOrderCancelled)
}

func TestCommit_UnknownVendorRejected(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.service.vendors = fakeVendors{exists: false}

	_, err := f.service.Commit(context.Background(), f.input(2))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCommit_PurchasePriceCopiedFromOrder(t *testing.T) {
	f := newEngineFixture(t, 10)

	res, err := f.service.Commit(context.Background(), f.input(3))
	require.NoError(t, err)

	line := res.Receive.Lines[0]
	assert.Equal(t, KindOrder, line.Kind)
	assert.True(t, line.PurchasePrice.Equal(types.MustMoney("24.99")))
	assert.True(t, res.Receive.TotalAmount.Equal(types.MustMoney("74.97")))
}

func TestCommit_ExtraOnlyReceipt(t *testing.T) {
	f := newEngineFixture(t, 10)

	res, err := f.service.Commit(context.Background(), CommitInput{
		VendorID: f.vendorID,
		ExtraLines: []ExtraLineInput{{
			Title:         "Packing Tape",
			SKU:           "B00PT-0042",
			Quantity:      5,
			PurchasePrice: types.MustMoney("2.50"),
			ConditionID:   id.New(),
		}},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Order)
	assert.Equal(t, StatusCompleted, res.Receive.Status)
	require.Len(t, res.Receive.Lines, 1)
	assert.Equal(t, KindExtra, res.Receive.Lines[0].Kind)
	assert.True(t, res.Receive.TotalAmount.Equal(types.MustMoney("12.50")))
}

func TestCommit_MixedReceiptPartialStatus(t *testing.T) {
	f := newEngineFixture(t, 10)

	in := f.input(4)
	in.ExtraLines = []ExtraLineInput{{
		Title:         "Spare Cable",
		SKU:           "B00SC-0007",
		Quantity:      1,
		PurchasePrice: types.MustMoney("3.00"),
		ConditionID:   id.New(),
	}}

	res, err := f.service.Commit(context.Background(), in)
	require.NoError(t, err)
	// extra lines never influence the partially/completed derivation
	assert.Equal(t, StatusPartially, res.Receive.Status)
	assert.Len(t, res.Receive.Lines, 2)
}

func TestCommit_RetriesOnConflict(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.orders.conflictsLeft = 1

	res, err := f.service.Commit(context.Background(), f.input(4))
	require.NoError(t, err)
	assert.Equal(t, StatusPartially, res.Receive.Status)
	assert.Equal(t, 2, f.orders.updateCalls)
	assert.Len(t, f.receives.receives, 1)
}

func TestCommit_ConcurrentCommitsNeverOverReceive(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.service = NewService(
		f.receives, f.orders,
		fakeVendors{exists: true},
		&numerator.MockGenerator{},
		&lockingTxManager{},
		nil,
	)
	ctx := context.Background()

	// Bring the line to 4 received so 6 remain.
	_, err := f.service.Commit(ctx, f.input(4))
	require.NoError(t, err)

	// 3 and 4 both fit 6 on their own, together they do not.
	quantities := []int64{3, 4}
	errs := make([]error, len(quantities))

	var wg sync.WaitGroup
	for i, qty := range quantities {
		wg.Add(1)
		go func(i int, qty int64) {
			defer wg.Done()
			_, errs[i] = f.service.Commit(ctx, f.input(qty))
		}(i, qty)
	}
	wg.Wait()

	var winnerQty int64
	var succeeded, rejected int
	for i, commitErr := range errs {
		if commitErr == nil {
			succeeded++
			winnerQty = quantities[i]
			continue
		}
		rejected++
		appErr, ok := apperror.AsAppError(commitErr)
		require.True(t, ok, "unexpected error: %v", commitErr)
		assert.Contains(t,
			[]string{apperror.CodeOverReceipt, apperror.CodeConcurrentModification},
			appErr.Code)
	}
	require.Equal(t, 1, succeeded, "exactly one of the racing commits may land")
	require.Equal(t, 1, rejected)

	line := f.orders.lines[0]
	assert.LessOrEqual(t, line.ReceivedQty, line.OrderedQty,
		"received quantity must never exceed ordered quantity")
	assert.Equal(t, 4+winnerQty, line.ReceivedQty)
	assert.Len(t, f.receives.receives, 2)
}

func TestCommit_GivesUpAfterBoundedRetries(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.orders.conflictsLeft = maxCommitAttempts + 1

	_, err := f.service.Commit(context.Background(), f.input(4))
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
	assert.Equal(t, maxCommitAttempts, f.orders.updateCalls)
	assert.Empty(t, f.receives.receives)
}

func TestCommit_ExtraLineValidation(t *testing.T) {
	f := newEngineFixture(t, 10)

	tests := []struct {
		name string
		line ExtraLineInput
	}{
		{"missing title", ExtraLineInput{SKU: "B00", Quantity: 1, PurchasePrice: types.MustMoney("1"), ConditionID: id.New()}},
		{"missing sku", ExtraLineInput{Title: "X", Quantity: 1, PurchasePrice: types.MustMoney("1"), ConditionID: id.New()}},
		{"zero quantity", ExtraLineInput{Title: "X", SKU: "B00", Quantity: 0, PurchasePrice: types.MustMoney("1"), ConditionID: id.New()}},
		{"negative price", ExtraLineInput{Title: "X", SKU: "B00", Quantity: 1, PurchasePrice: types.MustMoney("-1"), ConditionID: id.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Commit(context.Background(), CommitInput{
				VendorID:   f.vendorID,
				ExtraLines: []ExtraLineInput{tt.line},
			})
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}
