package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

const simulatedCreateLatency = 800 * time.Millisecond

// Simulator stands in for the Airtm sandbox so the full remittance flow can
// run without payout credentials.
type Simulator struct {
	logger *logger.Logger
}

func NewSimulator(logger *logger.Logger) IPayout {
	return &Simulator{logger: logger}
}

func (s *Simulator) CreateVoucher(ctx context.Context, amountUSD decimal.Decimal, reference string) (*Voucher, error) {
	s.logger.Info("[CreateVoucher] issuing simulated voucher", map[string]string{
		"amount_usd": amountUSD.String(),
		"reference":  reference,
	})

	select {
	case <-time.After(simulatedCreateLatency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	voucher := &Voucher{
		ID:        fmt.Sprintf("vch_%s", uuid.NewString()),
		Amount:    amountUSD,
		Currency:  "USD",
		Status:    VoucherStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	s.logger.Info("[CreateVoucher] voucher issued", map[string]string{
		"voucher_id": voucher.ID,
		"reference":  reference,
	})

	return voucher, nil
}

func (s *Simulator) GetVoucherStatus(ctx context.Context, voucherID string) (VoucherStatus, error) {
	select {
	case <-time.After(300 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// The simulator considers any queried voucher already processed.
	return VoucherStatusPaid, nil
}
