package payout

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

// AirtmClient talks to the Airtm sandbox voucher API. Selected at startup
// when PAYOUT_API_URL is configured; otherwise the simulator is used.
type AirtmClient struct {
	client *resty.Client
	logger *logger.Logger
}

type createVoucherRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type voucherStatusResponse struct {
	Status VoucherStatus `json:"status"`
}

func NewAirtmClient(appConfig *config.AppConfig, logger *logger.Logger) IPayout {
	client := resty.New().
		SetBaseURL(appConfig.Payout.APIURL).
		SetAuthToken(appConfig.Payout.APIKey).
		SetHeader("Content-Type", "application/json")

	return &AirtmClient{
		client: client,
		logger: logger,
	}
}

func (a *AirtmClient) CreateVoucher(ctx context.Context, amountUSD decimal.Decimal, reference string) (*Voucher, error) {
	var voucher Voucher

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", reference).
		SetBody(createVoucherRequest{
			Amount:    amountUSD.StringFixed(2),
			Currency:  "USD",
			Reference: reference,
		}).
		SetResult(&voucher).
		Post("/vouchers")
	if err != nil {
		return nil, errors.Wrap(err, "failed to request voucher creation")
	}

	if resp.IsError() {
		a.logger.Error("[CreateVoucher] voucher API error", map[string]string{
			"status":    resp.Status(),
			"reference": reference,
		})
		return nil, fmt.Errorf("voucher creation failed: status %d", resp.StatusCode())
	}

	return &voucher, nil
}

func (a *AirtmClient) GetVoucherStatus(ctx context.Context, voucherID string) (VoucherStatus, error) {
	var status voucherStatusResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&status).
		Get(fmt.Sprintf("/vouchers/%s", voucherID))
	if err != nil {
		return "", errors.Wrap(err, "failed to request voucher status")
	}

	if resp.IsError() {
		return "", fmt.Errorf("voucher status check failed: status %d", resp.StatusCode())
	}

	return status.Status, nil
}
