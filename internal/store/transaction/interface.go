package transaction

import (
	"time"

	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, tx *model.Transaction) (*model.Transaction, error)
	GetByID(db *gorm.DB, id string) (*model.Transaction, error)
	All(db *gorm.DB) ([]model.Transaction, error)

	// MarkReceived advances PENDING -> RECEIVED and records the settlement
	// reference in a single conditional update. claimed is false when the row
	// was no longer PENDING, which is how duplicate payment deliveries are
	// absorbed.
	MarkReceived(db *gorm.DB, id, stellarHash string) (claimed bool, err error)

	// MarkCompleted advances RECEIVED -> COMPLETED together with the voucher
	// fields. False when the row was not RECEIVED.
	MarkCompleted(db *gorm.DB, id, voucherID, payoutStatus string) (bool, error)

	// MarkFailed terminates a PENDING row. Only the reaper and admin paths
	// call this.
	MarkFailed(db *gorm.DB, id string) (bool, error)

	// FindStale returns rows in the given status created before olderThan,
	// oldest first.
	FindStale(db *gorm.DB, status model.TransactionStatus, olderThan time.Time) ([]model.Transaction, error)
}
