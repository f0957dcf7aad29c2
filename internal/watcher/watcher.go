package watcher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/consts"
	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/monitoring"
	"github.com/remesalabs/remesa-backend/internal/settlement"
	"github.com/remesalabs/remesa-backend/internal/stellarrpc"
	"github.com/remesalabs/remesa-backend/internal/store"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

const streamRetryDelay = 2 * time.Second

// Watcher reconciles incoming ledger payments against pending transactions.
// Each transaction gets its own bounded watch combining two sources of truth:
// a live payment stream from "now", and a delayed historical scan that
// catches payments which landed before the stream connected. Both sources can
// report the same physical payment; the settlement claim absorbs duplicates.
type Watcher struct {
	db         *gorm.DB
	store      *store.Store
	stellarRpc stellarrpc.IStellarRpc
	settler    *settlement.Settler
	logger     *logger.Logger
	appConfig  *config.AppConfig
	metrics    *monitoring.Metrics
	registry   *Registry
}

func New(
	db *gorm.DB,
	store *store.Store,
	stellarRpc stellarrpc.IStellarRpc,
	settler *settlement.Settler,
	appConfig *config.AppConfig,
	logger *logger.Logger,
	metrics *monitoring.Metrics,
) *Watcher {
	return &Watcher{
		db:         db,
		store:      store,
		stellarRpc: stellarRpc,
		settler:    settler,
		logger:     logger,
		appConfig:  appConfig,
		metrics:    metrics,
		registry:   NewRegistry(),
	}
}

func (w *Watcher) Registry() *Registry {
	return w.registry
}

// Start launches the background watch for a freshly created transaction and
// returns immediately. The watch ends on settlement or when the timeout
// ceiling passes, whichever comes first.
func (w *Watcher) Start(tx *model.Transaction) {
	ctx, cancel := context.WithTimeout(context.Background(), w.appConfig.Remittance.WatchTimeout)

	if !w.registry.add(tx.ID, cancel) {
		cancel()
		return
	}

	w.metrics.WatchStarted()
	w.logger.Info("[Start] watching for payment", map[string]string{
		"transaction_id": tx.ID,
		"address":        tx.DepositAddress,
		"expected_xlm":   tx.AmountXLM.String(),
	})

	go w.watch(ctx, tx.ID, tx.DepositAddress, tx.AmountXLM)
}

func (w *Watcher) watch(ctx context.Context, transactionID, address string, expected decimal.Decimal) {
	defer func() {
		w.registry.remove(transactionID)
		w.metrics.WatchEnded()
	}()

	go w.scanHistory(ctx, transactionID, address, expected)

	for {
		err := w.stellarRpc.StreamIncomingPayments(ctx, address, func(payment model.LedgerPayment) {
			w.deliver(ctx, transactionID, address, expected, payment, "stream")
		})

		if ctx.Err() != nil {
			break
		}

		// Transport failure with the watch still live: log and reconnect.
		if err != nil {
			w.logger.Error("[watch][StreamIncomingPayments]", map[string]string{
				"error":          err.Error(),
				"transaction_id": transactionID,
			})
		}

		select {
		case <-time.After(streamRetryDelay):
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// Left in whatever state it reached; a still-PENDING transaction is
		// operator-visible via the admin listing and the reaper.
		w.logger.Info("[watch] watch timeout reached", map[string]string{
			"transaction_id": transactionID,
			"address":        address,
		})
	}
}

// scanHistory is the point-in-time pass over recent operations. It runs once,
// after a short delay, and its failure never aborts the live stream.
func (w *Watcher) scanHistory(ctx context.Context, transactionID, address string, expected decimal.Decimal) {
	select {
	case <-time.After(w.appConfig.Remittance.ScanDelay):
	case <-ctx.Done():
		return
	}

	payments, err := w.stellarRpc.GetRecentPayments(address, consts.HistoryScanLimit)
	if err != nil {
		w.logger.Error("[scanHistory][GetRecentPayments]", map[string]string{
			"error":          err.Error(),
			"transaction_id": transactionID,
		})
		return
	}

	// Horizon returns newest first; walk backwards so the earliest sufficient
	// payment wins.
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i].Qualifies(address, expected) {
			w.deliver(ctx, transactionID, address, expected, payments[i], "history")
			return
		}
	}
}

func (w *Watcher) deliver(ctx context.Context, transactionID, address string, expected decimal.Decimal, payment model.LedgerPayment, source string) {
	if !payment.Qualifies(address, expected) {
		if payment.To == address && payment.Amount.LessThan(expected) {
			w.logger.Info("[deliver] underpayment ignored", map[string]string{
				"transaction_id": transactionID,
				"amount_xlm":     payment.Amount.String(),
				"expected_xlm":   expected.String(),
			})
		}
		return
	}

	w.metrics.PaymentDetected(source)

	err := w.settler.Settle(ctx, transactionID, payment)
	switch {
	case err == nil:
		w.registry.Stop(transactionID)
	case errors.Is(err, settlement.ErrAlreadyClaimed):
		w.registry.Stop(transactionID)
	default:
		// The claim may still have gone through (payout failure leaves the
		// transaction at RECEIVED). Only keep watching if it is still PENDING.
		tx, getErr := w.store.Transaction.GetByID(w.db, transactionID)
		if getErr == nil && tx.Status == model.TransactionStatusPending {
			return
		}
		w.registry.Stop(transactionID)
	}
}
