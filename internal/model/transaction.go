package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusReceived  TransactionStatus = "RECEIVED"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// CanTransition reports whether moving to next is a legal forward step.
// COMPLETED and FAILED are terminal; no backward or skipped transitions.
func (s TransactionStatus) CanTransition(next TransactionStatus) bool {
	switch s {
	case TransactionStatusPending:
		return next == TransactionStatusReceived || next == TransactionStatusFailed
	case TransactionStatusReceived:
		return next == TransactionStatusCompleted || next == TransactionStatusFailed
	default:
		return false
	}
}

// Transaction is one remittance intent and its full settlement lifecycle.
// Rows are append-only: status only ever advances, nothing is deleted.
type Transaction struct {
	ID     string            `json:"id" gorm:"column:id;type:varchar(36);primaryKey"`
	Status TransactionStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`

	AmountUSD decimal.Decimal `json:"amount_usd" gorm:"column:amount_usd;type:numeric(20,2);not null"`
	AmountXLM decimal.Decimal `json:"amount_xlm" gorm:"column:amount_xlm;type:numeric(20,7);not null"`

	DepositAddress string `json:"deposit_address" gorm:"column:deposit_address;type:varchar(56);not null;uniqueIndex"`
	// Never serialized and never logged. Kept only for an eventual sweep of
	// received funds.
	DepositSecret string `json:"-" gorm:"column:deposit_secret;type:varchar(56);not null"`

	StellarHash    string `json:"stellar_hash" gorm:"column:stellar_hash;type:varchar(64)"`
	AirtmVoucherID string `json:"airtm_voucher_id" gorm:"column:airtm_voucher_id;type:varchar(64)"`
	AirtmStatus    string `json:"airtm_status" gorm:"column:airtm_status;type:varchar(20)"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction builds a PENDING intent for a freshly provisioned deposit
// account. The XLM amount is fixed here and never recomputed.
func NewTransaction(amountUSD, amountXLM decimal.Decimal, account *DepositAccount) *Transaction {
	return &Transaction{
		ID:             uuid.NewString(),
		Status:         TransactionStatusPending,
		AmountUSD:      amountUSD,
		AmountXLM:      amountXLM,
		DepositAddress: account.Address,
		DepositSecret:  account.Secret,
	}
}
