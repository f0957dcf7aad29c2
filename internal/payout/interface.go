package payout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type VoucherStatus string

const (
	VoucherStatusPending   VoucherStatus = "pending"
	VoucherStatusPaid      VoucherStatus = "paid"
	VoucherStatusCancelled VoucherStatus = "cancelled"
)

// Voucher is a redeemable payout credential issued once funds are confirmed
// received.
type Voucher struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    VoucherStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type IPayout interface {
	// CreateVoucher issues a voucher for the given USD amount. reference is
	// the transaction id and doubles as the idempotency key. Possibly slow;
	// treat as a blocking network call.
	CreateVoucher(ctx context.Context, amountUSD decimal.Decimal, reference string) (*Voucher, error)

	// GetVoucherStatus is exposed for reconciliation tooling; the happy path
	// does not need it.
	GetVoucherStatus(ctx context.Context, voucherID string) (VoucherStatus, error)
}
