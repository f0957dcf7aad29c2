package stellarrpc

import (
	"context"

	"github.com/remesalabs/remesa-backend/internal/model"
)

type IStellarRpc interface {
	// CreateDepositAccount generates a fresh keypair and activates it on the
	// ledger with the minimum starting balance, funded by the operating
	// account. On error nothing usable exists on the ledger.
	CreateDepositAccount() (*model.DepositAccount, error)

	// GetRecentPayments returns up to limit incoming native payments to the
	// address, most recent first.
	GetRecentPayments(address string, limit int) ([]model.LedgerPayment, error)

	// StreamIncomingPayments follows new payment operations on the address
	// from "now" until ctx is cancelled, invoking handler for each incoming
	// native payment. Blocks until the stream ends.
	StreamIncomingPayments(ctx context.Context, address string, handler func(model.LedgerPayment)) error
}
