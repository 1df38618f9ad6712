package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/types"
	"procura/internal/domain/documents/purchase_receive"
)

type fakeReceiveReader struct {
	receive *purchase_receive.PurchaseReceive
}

func (f fakeReceiveReader) GetByID(ctx context.Context, docID id.ID) (*purchase_receive.PurchaseReceive, error) {
	if f.receive == nil || f.receive.ID != docID {
		return nil, apperror.NewNotFound("purchase receive", docID.String())
	}
	return f.receive, nil
}

func (f fakeReceiveReader) GetLines(ctx context.Context, docID id.ID) ([]purchase_receive.ReceiveLine, error) {
	return f.receive.Lines, nil
}

type readOnlyTxManager struct {
	readOnlyCalls int
}

func (m *readOnlyTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *readOnlyTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnlyCalls++
	return fn(ctx)
}

func TestProjectBill_CopiesLinesVerbatim(t *testing.T) {
	orderID := id.New()
	rcv := purchase_receive.NewPurchaseReceive(&orderID, id.New())
	rcv.Number = "PR-2026-00003"
	rcv.AttachLines([]purchase_receive.ReceiveLine{
		purchase_receive.NewOrderLinkedLine(id.New(), "Wireless Mouse", "B00WM-0001", 4, types.MustMoney("24.99"), nil, id.New(), nil),
		purchase_receive.NewOrderLinkedLine(id.New(), "USB-C Hub", "B00UC-0002", 2, types.MustMoney("49.90"), nil, id.New(), nil),
		purchase_receive.NewExtraLine("Packing Tape", "B00PT-0042", 5, types.MustMoney("2.50"), nil, id.New(), nil),
	})

	txm := &readOnlyTxManager{}
	svc := NewService(fakeReceiveReader{receive: rcv}, txm)

	bill, err := svc.ProjectBill(context.Background(), rcv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, txm.readOnlyCalls, "header and lines must be read in one read-only transaction")

	assert.Equal(t, rcv.ID, bill.ReceiveID)
	assert.Equal(t, rcv.VendorID, bill.VendorID)
	assert.Equal(t, "PR-2026-00003", bill.Number)
	require.Len(t, bill.Lines, 3)

	// lines are copied verbatim, order-linked and extra lines alike
	assert.Equal(t, "Wireless Mouse", bill.Lines[0].Label)
	assert.Equal(t, int64(4), bill.Lines[0].Quantity)
	assert.True(t, bill.Lines[0].UnitPrice.Equal(types.MustMoney("24.99")))
	assert.True(t, bill.Lines[0].Total.Equal(types.MustMoney("99.96")))

	assert.Equal(t, "Packing Tape", bill.Lines[2].Label)
	assert.True(t, bill.Lines[2].Total.Equal(types.MustMoney("12.50")))

	// 99.96 + 99.80 + 12.50
	assert.True(t, bill.Total.Equal(types.MustMoney("212.26")), "total = %s", bill.Total)
	assert.True(t, bill.Total.Equal(rcv.TotalAmount))
}

func TestProjectBill_UnknownReceive(t *testing.T) {
	svc := NewService(fakeReceiveReader{}, &readOnlyTxManager{})

	_, err := svc.ProjectBill(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
