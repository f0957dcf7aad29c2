package store

import (
	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/store/transaction"
)

type Store struct {
	Transaction transaction.IStore
}

func New() *Store {
	return &Store{
		Transaction: transaction.New(),
	}
}

func DoInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
