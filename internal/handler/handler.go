package handler

import (
	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/handler/health"
	"github.com/remesalabs/remesa-backend/internal/handler/transaction"
	"github.com/remesalabs/remesa-backend/internal/settlement"
	"github.com/remesalabs/remesa-backend/internal/stellarrpc"
	"github.com/remesalabs/remesa-backend/internal/store"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
	"github.com/remesalabs/remesa-backend/internal/watcher"
)

type Handler struct {
	TransactionHandler transaction.IHandler
	HealthHandler      health.IHandler
}

func New(
	db *gorm.DB,
	store *store.Store,
	stellarRpc stellarrpc.IStellarRpc,
	watcher *watcher.Watcher,
	settler *settlement.Settler,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		TransactionHandler: transaction.New(db, store, stellarRpc, watcher, settler, logger),
		HealthHandler:      health.New(db, watcher.Registry(), logger),
	}
}
