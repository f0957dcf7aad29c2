package settlement

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/monitoring"
	"github.com/remesalabs/remesa-backend/internal/payout"
	"github.com/remesalabs/remesa-backend/internal/store"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

var (
	// ErrAlreadyClaimed means another delivery of the same payment won the
	// PENDING -> RECEIVED claim first. Not a failure; the watch is done.
	ErrAlreadyClaimed = errors.New("transaction already claimed for settlement")

	// ErrNotAwaitingPayout rejects a payout retry on a transaction that is
	// not stuck at RECEIVED.
	ErrNotAwaitingPayout = errors.New("transaction is not awaiting payout")
)

// Settler drives the per-transaction lifecycle
// PENDING -> RECEIVED -> COMPLETED. Every transition is a single conditional
// update; nothing moves backwards or skips a state.
type Settler struct {
	db      *gorm.DB
	store   *store.Store
	payout  payout.IPayout
	logger  *logger.Logger
	metrics *monitoring.Metrics
}

func New(db *gorm.DB, store *store.Store, payoutClient payout.IPayout, logger *logger.Logger, metrics *monitoring.Metrics) *Settler {
	return &Settler{
		db:      db,
		store:   store,
		payout:  payoutClient,
		logger:  logger,
		metrics: metrics,
	}
}

// Settle reconciles one qualifying ledger payment against the transaction.
// The conditional MarkReceived update is the sole deduplication guard: the
// historical scan and the live stream can both deliver the same physical
// payment, only one claim succeeds.
func (s *Settler) Settle(ctx context.Context, transactionID string, payment model.LedgerPayment) error {
	claimed, err := s.store.Transaction.MarkReceived(s.db, transactionID, payment.TransactionHash)
	if err != nil {
		s.logger.Error("[Settle][MarkReceived]", map[string]string{
			"error":          err.Error(),
			"transaction_id": transactionID,
		})
		return err
	}
	if !claimed {
		s.metrics.SettlementOutcome("duplicate")
		return ErrAlreadyClaimed
	}

	s.logger.Info("[Settle] payment received", map[string]string{
		"transaction_id": transactionID,
		"stellar_hash":   payment.TransactionHash,
		"amount_xlm":     payment.Amount.String(),
	})

	return s.completePayout(ctx, transactionID)
}

// RetryPayout re-drives RECEIVED -> COMPLETED for a transaction stuck after a
// payout failure. Admin-only.
func (s *Settler) RetryPayout(ctx context.Context, transactionID string) error {
	tx, err := s.store.Transaction.GetByID(s.db, transactionID)
	if err != nil {
		return err
	}

	if tx.Status != model.TransactionStatusReceived {
		return ErrNotAwaitingPayout
	}

	return s.completePayout(ctx, transactionID)
}

func (s *Settler) completePayout(ctx context.Context, transactionID string) error {
	tx, err := s.store.Transaction.GetByID(s.db, transactionID)
	if err != nil {
		s.logger.Error("[completePayout][GetByID]", map[string]string{
			"error":          err.Error(),
			"transaction_id": transactionID,
		})
		return err
	}

	voucher, err := s.payout.CreateVoucher(ctx, tx.AmountUSD, tx.ID)
	if err != nil {
		// The transaction stays at RECEIVED; funds are on the ledger and an
		// operator can retry issuance.
		s.metrics.SettlementOutcome("payout_failed")
		s.logger.Error("[completePayout][CreateVoucher]", map[string]string{
			"error":          err.Error(),
			"transaction_id": transactionID,
		})
		return errors.Wrap(err, "voucher issuance failed")
	}

	done, err := s.store.Transaction.MarkCompleted(s.db, transactionID, voucher.ID, string(payout.VoucherStatusPaid))
	if err != nil {
		s.logger.Error("[completePayout][MarkCompleted]", map[string]string{
			"error":          err.Error(),
			"transaction_id": transactionID,
		})
		return err
	}
	if !done {
		// Lost a race with a concurrent retry; the row is already terminal.
		s.metrics.SettlementOutcome("duplicate")
		return nil
	}

	s.metrics.SettlementOutcome("completed")
	s.logger.Info("[completePayout] remittance completed", map[string]string{
		"transaction_id": transactionID,
		"voucher_id":     voucher.ID,
	})

	return nil
}
