package rate

import (
	"github.com/shopspring/decimal"

	"github.com/remesalabs/remesa-backend/internal/consts"
)

// Converter translates requested fiat amounts into the expected XLM deposit
// amount. The rate is fixed for the demo; a transaction captures the result
// at creation time and never recomputes it.
type Converter struct {
	usdPerXLM decimal.Decimal
}

func NewConverter() *Converter {
	return &Converter{
		usdPerXLM: decimal.RequireFromString(consts.ExchangeRateUSDPerXLM),
	}
}

func (c *Converter) USDToXLM(amountUSD decimal.Decimal) decimal.Decimal {
	return amountUSD.Div(c.usdPerXLM).Round(consts.XLMDecimalPlaces)
}

// FormatXLM renders an amount the way the ledger does, always with 7 decimal
// places.
func FormatXLM(amount decimal.Decimal) string {
	return amount.StringFixed(consts.XLMDecimalPlaces)
}
