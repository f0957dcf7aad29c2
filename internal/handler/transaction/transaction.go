package transaction

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/rate"
	"github.com/remesalabs/remesa-backend/internal/settlement"
	"github.com/remesalabs/remesa-backend/internal/stellarrpc"
	"github.com/remesalabs/remesa-backend/internal/store"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
	"github.com/remesalabs/remesa-backend/internal/watcher"
)

type handler struct {
	db         *gorm.DB
	store      *store.Store
	stellarRpc stellarrpc.IStellarRpc
	watcher    *watcher.Watcher
	settler    *settlement.Settler
	converter  *rate.Converter
	logger     *logger.Logger
}

func New(
	db *gorm.DB,
	store *store.Store,
	stellarRpc stellarrpc.IStellarRpc,
	watcher *watcher.Watcher,
	settler *settlement.Settler,
	logger *logger.Logger,
) IHandler {
	return &handler{
		db:         db,
		store:      store,
		stellarRpc: stellarRpc,
		watcher:    watcher,
		settler:    settler,
		converter:  rate.NewConverter(),
		logger:     logger,
	}
}

// Create godoc
// @Summary Create a remittance intent
// @Description Provisions a deposit address and starts watching it for payment
// @id createTransaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Requested USD amount"
// @Success 201 {object} CreateTransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /transactions [post]
func (h *handler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[Create][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid USD amount"})
		return
	}

	amountUSD, err := decimal.NewFromString(req.AmountUSD.String())
	if err != nil || !amountUSD.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid USD amount"})
		return
	}

	// Provision first: if the ledger rejects the funding transaction, no
	// record is persisted and the request fails whole.
	account, err := h.stellarRpc.CreateDepositAccount()
	if err != nil {
		h.logger.Error("[Create][CreateDepositAccount]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to provision deposit account"})
		return
	}

	amountXLM := h.converter.USDToXLM(amountUSD)
	tx := model.NewTransaction(amountUSD, amountXLM, account)

	if _, err := h.store.Transaction.Create(h.db, tx); err != nil {
		h.logger.Error("[Create][store.Create]", map[string]string{
			"error":          err.Error(),
			"transaction_id": tx.ID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist transaction"})
		return
	}

	// Background watch; the response does not wait for any payment.
	h.watcher.Start(tx)

	c.JSON(http.StatusCreated, CreateTransactionResponse{
		TransactionID:  tx.ID,
		DepositAddress: tx.DepositAddress,
		AmountXLM:      rate.FormatXLM(tx.AmountXLM),
		Status:         string(tx.Status),
		Message:        "Transaction intent created. Please deposit the indicated XLM amount.",
	})
}

// Get godoc
// @Summary Get transaction status
// @id getTransaction
// @Tags Transaction
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionView
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *handler) Get(c *gin.Context) {
	tx, err := h.store.Transaction.GetByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		h.logger.Error("[Get][GetByID]", map[string]string{
			"error": err.Error(),
			"id":    c.Param("id"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transaction"})
		return
	}

	c.JSON(http.StatusOK, toTransactionView(tx))
}

// List godoc
// @Summary List all transactions
// @Description Admin-only full listing, newest first
// @id listTransactions
// @Tags Transaction
// @Produce json
// @Success 200 {array} TransactionView
// @Failure 401 {object} map[string]string
// @Router /admin/transactions [get]
func (h *handler) List(c *gin.Context) {
	txs, err := h.store.Transaction.All(h.db)
	if err != nil {
		h.logger.Error("[List][All]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
		return
	}

	views := make([]TransactionView, 0, len(txs))
	for i := range txs {
		views = append(views, toTransactionView(&txs[i]))
	}

	c.JSON(http.StatusOK, views)
}

// RetryPayout godoc
// @Summary Retry voucher issuance
// @Description Re-drives payout for a transaction stuck at RECEIVED
// @id retryPayout
// @Tags Transaction
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/transactions/{id}/retry-payout [post]
func (h *handler) RetryPayout(c *gin.Context) {
	id := c.Param("id")

	err := h.settler.RetryPayout(c.Request.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	case errors.Is(err, settlement.ErrNotAwaitingPayout):
		c.JSON(http.StatusConflict, gin.H{"error": "transaction is not awaiting payout"})
		return
	default:
		h.logger.Error("[RetryPayout][settler.RetryPayout]", map[string]string{
			"error": err.Error(),
			"id":    id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payout retry failed"})
		return
	}

	tx, err := h.store.Transaction.GetByID(h.db, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transaction"})
		return
	}

	c.JSON(http.StatusOK, toTransactionView(tx))
}
