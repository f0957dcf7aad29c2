package transaction

import (
	"encoding/json"
	"time"

	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/rate"
)

// CreateTransactionRequest accepts the amount as either a JSON number or a
// numeric string.
type CreateTransactionRequest struct {
	AmountUSD json.Number `json:"amountUsd" binding:"required"`
}

type CreateTransactionResponse struct {
	TransactionID  string `json:"transactionId"`
	DepositAddress string `json:"depositAddress"`
	AmountXLM      string `json:"amountXlm"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// TransactionView is the client-facing projection of a transaction. The
// deposit secret is not part of it by construction.
type TransactionView struct {
	TransactionID       string    `json:"transactionId"`
	Status              string    `json:"status"`
	AmountUSD           string    `json:"amountUsd"`
	AmountXLM           string    `json:"amountXlm"`
	DepositAddress      string    `json:"depositAddress"`
	SettlementReference string    `json:"settlementReference,omitempty"`
	PayoutVoucherID     string    `json:"payoutVoucherId,omitempty"`
	PayoutStatus        string    `json:"payoutStatus,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

func toTransactionView(tx *model.Transaction) TransactionView {
	return TransactionView{
		TransactionID:       tx.ID,
		Status:              string(tx.Status),
		AmountUSD:           tx.AmountUSD.StringFixed(2),
		AmountXLM:           rate.FormatXLM(tx.AmountXLM),
		DepositAddress:      tx.DepositAddress,
		SettlementReference: tx.StellarHash,
		PayoutVoucherID:     tx.AirtmVoucherID,
		PayoutStatus:        tx.AirtmStatus,
		CreatedAt:           tx.CreatedAt,
	}
}
