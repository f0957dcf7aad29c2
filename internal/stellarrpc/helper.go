package stellarrpc

import (
	"github.com/shopspring/decimal"
	"github.com/stellar/go/protocols/horizon/operations"

	"github.com/remesalabs/remesa-backend/internal/model"
)

// toLedgerPayment narrows a Horizon operation record down to a native-asset
// payment. Other operation types (create_account, path payments, trustlines)
// are not qualifying deposits.
func toLedgerPayment(op operations.Operation) (model.LedgerPayment, bool) {
	payment, ok := op.(operations.Payment)
	if !ok {
		return model.LedgerPayment{}, false
	}

	if payment.Asset.Type != "native" {
		return model.LedgerPayment{}, false
	}

	amount, err := decimal.NewFromString(payment.Amount)
	if err != nil {
		return model.LedgerPayment{}, false
	}

	return model.LedgerPayment{
		TransactionHash: payment.Base.TransactionHash,
		From:            payment.From,
		To:              payment.To,
		Amount:          amount,
		PagingToken:     payment.Base.PT,
		ClosedAt:        payment.Base.LedgerCloseTime,
	}, true
}
