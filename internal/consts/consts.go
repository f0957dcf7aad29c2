package consts

import "time"

const (
	// USD value of 1 XLM, fixed for the lifetime of a transaction.
	ExchangeRateUSDPerXLM = "0.10"

	// XLM amounts are rendered with the ledger's native 7 decimal places.
	XLMDecimalPlaces = 7

	// Starting balance for a freshly provisioned deposit account. Covers the
	// base reserve plus headroom for one outbound network fee.
	DepositStartingBalance = "1.5"

	// Number of recent operations fetched by the historical scan.
	HistoryScanLimit = 10

	// Timeout for submitting the create-account transaction.
	ProvisionTxTimeout = 30
)

const (
	DefaultWatchTimeout    = 10 * time.Minute
	DefaultScanDelay       = 2 * time.Second
	DefaultStalePendingAge = 24 * time.Hour
)
