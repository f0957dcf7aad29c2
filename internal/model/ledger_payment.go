package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositAccount is a freshly provisioned single-use ledger account.
type DepositAccount struct {
	Address string
	Secret  string
}

// LedgerPayment is one incoming payment operation observed on the ledger,
// either from the historical scan or from the live stream.
type LedgerPayment struct {
	TransactionHash string
	From            string
	To              string
	Amount          decimal.Decimal
	PagingToken     string
	ClosedAt        time.Time
}

// Qualifies reports whether the payment settles a transaction expecting
// expectedAmount at address. Overpayment qualifies, underpayment does not.
func (p LedgerPayment) Qualifies(address string, expectedAmount decimal.Decimal) bool {
	return p.To == address && p.Amount.GreaterThanOrEqual(expectedAmount)
}
