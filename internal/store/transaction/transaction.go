package transaction

import (
	"time"

	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, tx *model.Transaction) (*model.Transaction, error) {
	return tx, db.Create(tx).Error
}

func (s *store) GetByID(db *gorm.DB, id string) (*model.Transaction, error) {
	var tx model.Transaction
	err := db.Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *store) All(db *gorm.DB) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := db.Order("created_at desc").Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *store) MarkReceived(db *gorm.DB, id, stellarHash string) (bool, error) {
	res := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":       model.TransactionStatusReceived,
			"stellar_hash": stellarHash,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *store) MarkCompleted(db *gorm.DB, id, voucherID, payoutStatus string) (bool, error) {
	res := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusReceived).
		Updates(map[string]interface{}{
			"status":           model.TransactionStatusCompleted,
			"airtm_voucher_id": voucherID,
			"airtm_status":     payoutStatus,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *store) FindStale(db *gorm.DB, status model.TransactionStatus, olderThan time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := db.Where("status = ? AND created_at < ?", status, olderThan).
		Order("created_at asc").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *store) MarkFailed(db *gorm.DB, id string) (bool, error) {
	res := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":     model.TransactionStatusFailed,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
