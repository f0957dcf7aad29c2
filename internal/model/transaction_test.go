package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{TransactionStatusPending, TransactionStatusReceived, true},
		{TransactionStatusPending, TransactionStatusFailed, true},
		{TransactionStatusPending, TransactionStatusCompleted, false},
		{TransactionStatusReceived, TransactionStatusCompleted, true},
		{TransactionStatusReceived, TransactionStatusFailed, true},
		{TransactionStatusReceived, TransactionStatusPending, false},
		{TransactionStatusCompleted, TransactionStatusFailed, false},
		{TransactionStatusCompleted, TransactionStatusPending, false},
		{TransactionStatusFailed, TransactionStatusPending, false},
		{TransactionStatusFailed, TransactionStatusReceived, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestNewTransaction(t *testing.T) {
	account := &DepositAccount{
		Address: "GDEPOSIT",
		Secret:  "SSECRET",
	}

	tx := NewTransaction(decimal.NewFromInt(10), decimal.RequireFromString("100"), account)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, TransactionStatusPending, tx.Status)
	assert.Equal(t, "GDEPOSIT", tx.DepositAddress)
	assert.Equal(t, "SSECRET", tx.DepositSecret)
	assert.True(t, tx.AmountUSD.Equal(decimal.NewFromInt(10)))
	assert.True(t, tx.AmountXLM.Equal(decimal.NewFromInt(100)))
}

func TestTransactionSecretNeverMarshalled(t *testing.T) {
	tx := NewTransaction(decimal.NewFromInt(10), decimal.NewFromInt(100), &DepositAccount{
		Address: "GDEPOSIT",
		Secret:  "SCZKDUYQ6EJTRLQA7Y4XWBIVHX2BYV2G4MVN7XGYFR4NPMZLIWNMI7BQ",
	})

	raw, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "SCZKDUYQ6EJTRLQA7Y4XWBIVHX2BYV2G4MVN7XGYFR4NPMZLIWNMI7BQ")
	assert.NotContains(t, string(raw), "deposit_secret")
}

func TestLedgerPaymentQualifies(t *testing.T) {
	expected := decimal.RequireFromString("100")

	cases := []struct {
		name      string
		payment   LedgerPayment
		qualifies bool
	}{
		{
			name:      "exact amount",
			payment:   LedgerPayment{To: "GDEPOSIT", Amount: decimal.RequireFromString("100")},
			qualifies: true,
		},
		{
			name:      "overpayment",
			payment:   LedgerPayment{To: "GDEPOSIT", Amount: decimal.RequireFromString("150.25")},
			qualifies: true,
		},
		{
			name:      "underpayment",
			payment:   LedgerPayment{To: "GDEPOSIT", Amount: decimal.RequireFromString("99.9999999")},
			qualifies: false,
		},
		{
			name:      "wrong destination",
			payment:   LedgerPayment{To: "GOTHER", Amount: decimal.RequireFromString("100")},
			qualifies: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.qualifies, c.payment.Qualifies("GDEPOSIT", expected))
		})
	}
}
