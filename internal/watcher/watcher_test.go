package watcher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/monitoring"
	"github.com/remesalabs/remesa-backend/internal/payout"
	"github.com/remesalabs/remesa-backend/internal/settlement"
	"github.com/remesalabs/remesa-backend/internal/store"
	"github.com/remesalabs/remesa-backend/internal/types/environments"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

type fakeStellar struct {
	mux     sync.Mutex
	history []model.LedgerPayment
	stream  chan model.LedgerPayment
}

func newFakeStellar() *fakeStellar {
	return &fakeStellar{stream: make(chan model.LedgerPayment, 8)}
}

func (f *fakeStellar) setHistory(payments ...model.LedgerPayment) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.history = payments
}

func (f *fakeStellar) CreateDepositAccount() (*model.DepositAccount, error) {
	return &model.DepositAccount{Address: "GDEPOSIT", Secret: "SSECRET"}, nil
}

func (f *fakeStellar) GetRecentPayments(address string, limit int) ([]model.LedgerPayment, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	payments := make([]model.LedgerPayment, len(f.history))
	copy(payments, f.history)
	return payments, nil
}

func (f *fakeStellar) StreamIncomingPayments(ctx context.Context, address string, handler func(model.LedgerPayment)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payment := <-f.stream:
			handler(payment)
		}
	}
}

type countingPayout struct {
	calls atomic.Int64
}

func (c *countingPayout) CreateVoucher(ctx context.Context, amountUSD decimal.Decimal, reference string) (*payout.Voucher, error) {
	c.calls.Add(1)
	return &payout.Voucher{ID: "vch_" + reference, Status: payout.VoucherStatusPending}, nil
}

func (c *countingPayout) GetVoucherStatus(ctx context.Context, voucherID string) (payout.VoucherStatus, error) {
	return payout.VoucherStatusPaid, nil
}

type fixture struct {
	watcher *Watcher
	stellar *fakeStellar
	rail    *countingPayout
	db      *gorm.DB
	store   *store.Store
}

func newFixture(t *testing.T, watchTimeout time.Duration) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&model.Transaction{}))
	require.NoError(t, db.AutoMigrate(&model.Transaction{}))

	appConfig := &config.AppConfig{
		Remittance: config.RemittanceConfig{
			WatchTimeout:    watchTimeout,
			ScanDelay:       10 * time.Millisecond,
			StalePendingAge: time.Hour,
		},
	}

	s := store.New()
	log := logger.New(environments.Test)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	stellar := newFakeStellar()
	rail := &countingPayout{}
	settler := settlement.New(db, s, rail, log, metrics)

	return &fixture{
		watcher: New(db, s, stellar, settler, appConfig, log, metrics),
		stellar: stellar,
		rail:    rail,
		db:      db,
		store:   s,
	}
}

func (f *fixture) seedPending(t *testing.T) *model.Transaction {
	t.Helper()

	tx := model.NewTransaction(
		decimal.NewFromInt(10),
		decimal.RequireFromString("100"),
		&model.DepositAccount{Address: "GDEPOSIT", Secret: "SSECRET"},
	)
	_, err := f.store.Transaction.Create(f.db, tx)
	require.NoError(t, err)

	return tx
}

func (f *fixture) status(t *testing.T, id string) model.TransactionStatus {
	t.Helper()

	tx, err := f.store.Transaction.GetByID(f.db, id)
	require.NoError(t, err)
	return tx.Status
}

func payment(hash, amount string) model.LedgerPayment {
	return model.LedgerPayment{
		TransactionHash: hash,
		To:              "GDEPOSIT",
		Amount:          decimal.RequireFromString(amount),
	}
}

func TestWatchSettlesFromLiveStream(t *testing.T) {
	f := newFixture(t, 5*time.Second)
	tx := f.seedPending(t)

	f.watcher.Start(tx)
	f.stellar.stream <- payment("hash-live", "100")

	require.Eventually(t, func() bool {
		return f.status(t, tx.ID) == model.TransactionStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return f.watcher.Registry().Count() == 0
	}, 3*time.Second, 10*time.Millisecond, "watch must tear down after settlement")

	assert.Equal(t, int64(1), f.rail.calls.Load())
}

func TestWatchSettlesFromHistoricalScan(t *testing.T) {
	f := newFixture(t, 5*time.Second)
	tx := f.seedPending(t)

	// the eager payer already paid before the watch starts
	f.stellar.setHistory(payment("hash-past", "100"))
	f.watcher.Start(tx)

	require.Eventually(t, func() bool {
		return f.status(t, tx.ID) == model.TransactionStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)

	got, err := f.store.Transaction.GetByID(f.db, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-past", got.StellarHash)
}

func TestWatchDeduplicatesAcrossSources(t *testing.T) {
	f := newFixture(t, 5*time.Second)
	tx := f.seedPending(t)

	// both sources report the same physical payment
	f.stellar.setHistory(payment("hash-dup", "100"))
	f.watcher.Start(tx)
	f.stellar.stream <- payment("hash-dup", "100")

	require.Eventually(t, func() bool {
		return f.status(t, tx.ID) == model.TransactionStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return f.watcher.Registry().Count() == 0
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(1), f.rail.calls.Load(), "exactly one settlement")
}

func TestWatchIgnoresUnderpayment(t *testing.T) {
	f := newFixture(t, 5*time.Second)
	tx := f.seedPending(t)

	f.watcher.Start(tx)
	f.stellar.stream <- payment("hash-under", "99.9999999")

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, model.TransactionStatusPending, f.status(t, tx.ID))
	assert.Equal(t, 1, f.watcher.Registry().Count(), "watch keeps observing")

	// a later sufficient payment still settles
	f.stellar.stream <- payment("hash-enough", "120")
	require.Eventually(t, func() bool {
		return f.status(t, tx.ID) == model.TransactionStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)
}

func TestHistoricalScanPicksEarliestSufficientPayment(t *testing.T) {
	f := newFixture(t, 5*time.Second)
	tx := f.seedPending(t)

	// newest first, as Horizon returns them; the oldest sufficient payment
	// is hash-b
	f.stellar.setHistory(
		payment("hash-c", "150"),
		payment("hash-b", "100"),
		payment("hash-a", "50"),
	)
	f.watcher.Start(tx)

	require.Eventually(t, func() bool {
		return f.status(t, tx.ID) == model.TransactionStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)

	got, err := f.store.Transaction.GetByID(f.db, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-b", got.StellarHash)
}

func TestWatchTimeoutLeavesTransactionPending(t *testing.T) {
	f := newFixture(t, 150*time.Millisecond)
	tx := f.seedPending(t)

	f.watcher.Start(tx)

	require.Eventually(t, func() bool {
		return f.watcher.Registry().Count() == 0
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, model.TransactionStatusPending, f.status(t, tx.ID))
}

func TestStartIsIdempotentPerTransaction(t *testing.T) {
	f := newFixture(t, 5*time.Second)
	tx := f.seedPending(t)

	f.watcher.Start(tx)
	f.watcher.Start(tx)

	assert.Equal(t, 1, f.watcher.Registry().Count())

	f.watcher.Registry().Stop(tx.ID)
	require.Eventually(t, func() bool {
		return f.watcher.Registry().Count() == 0
	}, 3*time.Second, 10*time.Millisecond)
}
