package billing

import (
	"context"
	"fmt"

	"procura/internal/core/id"
	"procura/internal/core/tx"
	"procura/internal/core/types"
	"procura/internal/domain/documents/purchase_receive"
)

// ReceiveReader is the read surface billing needs: one committed receipt
// with its lines. Billing never consults the originating order.
type ReceiveReader interface {
	GetByID(ctx context.Context, docID id.ID) (*purchase_receive.PurchaseReceive, error)
	GetLines(ctx context.Context, docID id.ID) ([]purchase_receive.ReceiveLine, error)
}

// Service builds bills from committed receipts.
type Service struct {
	receives  ReceiveReader
	txManager tx.ReadOnlyManager
}

// NewService creates a billing projection service.
func NewService(receives ReceiveReader, txManager tx.ReadOnlyManager) *Service {
	return &Service{receives: receives, txManager: txManager}
}

// ProjectBill maps a receipt 1:1 into a Bill. Quantity validation already
// happened at receipt commit time; the projection copies lines verbatim.
// Header and lines are read in one read-only transaction.
func (s *Service) ProjectBill(ctx context.Context, receiveID id.ID) (*Bill, error) {
	var (
		rcv   *purchase_receive.PurchaseReceive
		lines []purchase_receive.ReceiveLine
	)
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if rcv, err = s.receives.GetByID(ctx, receiveID); err != nil {
			return err
		}
		if lines, err = s.receives.GetLines(ctx, receiveID); err != nil {
			return fmt.Errorf("get receive lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bill := &Bill{
		VendorID:  rcv.VendorID,
		ReceiveID: rcv.ID,
		Number:    rcv.Number,
		Lines:     make([]BillLine, 0, len(lines)),
		Total:     types.Zero(),
	}

	for _, l := range lines {
		total := l.Total()
		bill.Lines = append(bill.Lines, BillLine{
			Label:     l.Title,
			SKU:       l.SKU,
			Quantity:  l.Quantity,
			UnitPrice: l.PurchasePrice,
			Total:     total,
		})
		bill.Total = bill.Total.Add(total)
	}

	return bill, nil
}
