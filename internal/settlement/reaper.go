package settlement

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/store"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

// Reaper terminates intents the watch gave up on. A PENDING transaction whose
// watch timed out stays PENDING until the stale age passes, then becomes
// FAILED. RECEIVED rows are never failed automatically because the user's
// funds are already on the ledger; they are only reported.
type Reaper struct {
	db       *gorm.DB
	store    *store.Store
	logger   *logger.Logger
	staleAge time.Duration
}

func NewReaper(db *gorm.DB, store *store.Store, appConfig *config.AppConfig, logger *logger.Logger) *Reaper {
	return &Reaper{
		db:       db,
		store:    store,
		logger:   logger,
		staleAge: appConfig.Remittance.StalePendingAge,
	}
}

func (r *Reaper) SweepStalePending() {
	cutoff := time.Now().Add(-r.staleAge)

	stale, err := r.store.Transaction.FindStale(r.db, model.TransactionStatusPending, cutoff)
	if err != nil {
		r.logger.Error("[SweepStalePending][FindStale]", map[string]string{
			"error": err.Error(),
		})
		return
	}

	failed := 0
	for _, tx := range stale {
		done, err := r.store.Transaction.MarkFailed(r.db, tx.ID)
		if err != nil {
			r.logger.Error("[SweepStalePending][MarkFailed]", map[string]string{
				"error":          err.Error(),
				"transaction_id": tx.ID,
			})
			continue
		}
		if done {
			failed++
		}
	}

	if failed > 0 {
		r.logger.Info("[SweepStalePending] expired stale intents", map[string]string{
			"count": strconv.Itoa(failed),
		})
	}

	stuck, err := r.store.Transaction.FindStale(r.db, model.TransactionStatusReceived, cutoff)
	if err != nil {
		r.logger.Error("[SweepStalePending][FindStale received]", map[string]string{
			"error": err.Error(),
		})
		return
	}

	for _, tx := range stuck {
		r.logger.Error("[SweepStalePending] transaction stuck awaiting payout", map[string]string{
			"transaction_id": tx.ID,
			"created_at":     tx.CreatedAt.Format(time.RFC3339),
		})
	}
}
