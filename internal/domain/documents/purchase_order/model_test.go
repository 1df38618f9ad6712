package purchase_order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/core/types"
)

func newTestOrder() *PurchaseOrder {
	o := NewPurchaseOrder(id.New(), TermNet30)
	o.Number = "PO-2026-00001"
	o.AddLine("Wireless Mouse", "B00WM-0001", 10, types.MustMoney("24.99"))
	o.AddLine("USB-C Hub", "B00UC-0002", 5, types.MustMoney("49.90"))
	return o
}

func TestOrderLine_Remaining(t *testing.T) {
	tests := []struct {
		name     string
		ordered  int64
		received int64
		want     int64
	}{
		{"nothing received", 10, 0, 10},
		{"partially received", 10, 4, 6},
		{"fully received", 10, 10, 0},
		{"over-received state floors at zero", 10, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := OrderLine{OrderedQty: tt.ordered, ReceivedQty: tt.received}
			assert.Equal(t, tt.want, l.Remaining())
		})
	}
}

func TestRecalcStatus(t *testing.T) {
	t.Run("untouched order keeps pending", func(t *testing.T) {
		o := newTestOrder()
		o.RecalcStatus()
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("untouched order keeps approved", func(t *testing.T) {
		o := newTestOrder()
		o.Status = StatusApproved
		o.RecalcStatus()
		assert.Equal(t, StatusApproved, o.Status)
	})

	t.Run("any received quantity makes it partially", func(t *testing.T) {
		o := newTestOrder()
		o.Status = StatusApproved
		o.Lines[0].ReceivedQty = 1
		o.RecalcStatus()
		assert.Equal(t, StatusPartially, o.Status)
	})

	t.Run("one full line is still partially", func(t *testing.T) {
		o := newTestOrder()
		o.Lines[0].ReceivedQty = 10
		o.RecalcStatus()
		assert.Equal(t, StatusPartially, o.Status)
	})

	t.Run("all lines full is completed", func(t *testing.T) {
		o := newTestOrder()
		o.Lines[0].ReceivedQty = 10
		o.Lines[1].ReceivedQty = 5
		o.RecalcStatus()
		assert.Equal(t, StatusCompleted, o.Status)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		o := newTestOrder()
		o.Status = StatusCancelled
		o.Lines[0].ReceivedQty = 10
		o.Lines[1].ReceivedQty = 5
		o.RecalcStatus()
		assert.Equal(t, StatusCancelled, o.Status)
	})
}

func TestTotals(t *testing.T) {
	o := newTestOrder()
	o.Lines[0].ReceivedQty = 4

	totals := o.Totals()

	// 10*24.99 + 5*49.90
	assert.True(t, totals.Ordered.Equal(types.MustMoney("499.40")), "ordered = %s", totals.Ordered)
	// 4*24.99
	assert.True(t, totals.Received.Equal(types.MustMoney("99.96")), "received = %s", totals.Received)
	// received + remaining always equals ordered
	assert.True(t, totals.Received.Add(totals.Remaining).Equal(totals.Ordered))
}

func TestRemainingLines_ExcludesFullLines(t *testing.T) {
	o := newTestOrder()
	o.Lines[0].ReceivedQty = 10

	rem := o.RemainingLines()
	require.Len(t, rem, 1)
	assert.Equal(t, o.Lines[1].LineID, rem[0].LineID)
	assert.Equal(t, int64(5), rem[0].Remaining)
}

func TestPurchaseOrder_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, newTestOrder().Validate(ctx))
	})

	t.Run("missing vendor", func(t *testing.T) {
		o := newTestOrder()
		o.VendorID = id.Nil()
		assert.True(t, apperror.IsValidation(o.Validate(ctx)))
	})

	t.Run("unknown payment term", func(t *testing.T) {
		o := newTestOrder()
		o.PaymentTerm = "net90"
		assert.True(t, apperror.IsValidation(o.Validate(ctx)))
	})

	t.Run("no lines", func(t *testing.T) {
		o := NewPurchaseOrder(id.New(), TermAdvance)
		assert.True(t, apperror.IsValidation(o.Validate(ctx)))
	})

	t.Run("zero quantity line", func(t *testing.T) {
		o := newTestOrder()
		o.Lines[0].OrderedQty = 0
		assert.True(t, apperror.IsValidation(o.Validate(ctx)))
	})

	t.Run("negative unit price", func(t *testing.T) {
		o := newTestOrder()
		o.Lines[0].UnitPrice = types.MustMoney("-1")
		assert.True(t, apperror.IsValidation(o.Validate(ctx)))
	})

	t.Run("received above ordered", func(t *testing.T) {
		o := newTestOrder()
		o.Lines[0].ReceivedQty = 11
		assert.True(t, apperror.IsValidation(o.Validate(ctx)))
	})
}
