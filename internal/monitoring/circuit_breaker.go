package monitoring

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/remesalabs/remesa-backend/internal/payout"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

// CircuitBreakerPayout wraps payout.IPayout so a failing voucher API stops
// being hammered while transactions queue up at RECEIVED.
type CircuitBreakerPayout struct {
	wrapped        payout.IPayout
	circuitBreaker *gobreaker.CircuitBreaker
	metrics        *Metrics
	logger         *logger.Logger
}

type CircuitBreakerConfig struct {
	MaxRequests                 uint32
	Interval                    time.Duration
	Timeout                     time.Duration
	ConsecutiveFailureThreshold int
}

var DefaultCircuitBreakerConfig = CircuitBreakerConfig{
	MaxRequests:                 3,
	Interval:                    time.Minute,
	Timeout:                     30 * time.Second,
	ConsecutiveFailureThreshold: 5,
}

func NewCircuitBreakerPayout(wrapped payout.IPayout, config CircuitBreakerConfig, metrics *Metrics, logger *logger.Logger) *CircuitBreakerPayout {
	cb := &CircuitBreakerPayout{
		wrapped: wrapped,
		metrics: metrics,
		logger:  logger,
	}

	settings := gobreaker.Settings{
		Name:        "payout_rail",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state change", map[string]string{
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.UpdateCircuitBreakerState("payout_rail", to)
		},
	}

	cb.circuitBreaker = gobreaker.NewCircuitBreaker(settings)
	return cb
}

func (cb *CircuitBreakerPayout) CreateVoucher(ctx context.Context, amountUSD decimal.Decimal, reference string) (*payout.Voucher, error) {
	start := time.Now()

	result, err := cb.circuitBreaker.Execute(func() (interface{}, error) {
		return cb.wrapped.CreateVoucher(ctx, amountUSD, reference)
	})

	cb.metrics.ObservePayoutCall("create_voucher", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return nil, err
	}

	return result.(*payout.Voucher), nil
}

func (cb *CircuitBreakerPayout) GetVoucherStatus(ctx context.Context, voucherID string) (payout.VoucherStatus, error) {
	start := time.Now()

	result, err := cb.circuitBreaker.Execute(func() (interface{}, error) {
		return cb.wrapped.GetVoucherStatus(ctx, voucherID)
	})

	cb.metrics.ObservePayoutCall("get_voucher_status", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return "", err
	}

	return result.(payout.VoucherStatus), nil
}
