// internal/handlers/transaction/transaction_handler.go
package transaction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-service/internal/domain/transaction"
	"khata-service/internal/metrics"
	"khata-service/internal/middleware"
	"khata-service/internal/pkg/response"
	"khata-service/internal/service/dashboard"
	txsvc "khata-service/internal/service/transaction"
)

type Handler struct {
	service   *txsvc.Service
	dashboard *dashboard.Service
}

func NewHandler(service *txsvc.Service, dashboard *dashboard.Service) *Handler {
	return &Handler{service: service, dashboard: dashboard}
}

// Record writes one ledger entry and returns the customer's new balance.
// POST /api/v1/transactions
func (h *Handler) Record(c *gin.Context) {
	var req transaction.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	shopID := middleware.MustGetShopkeeperID(c)
	resp, err := h.service.Record(c.Request.Context(), shopID, &req)
	if err != nil {
		response.FromError(c, err, "failed to record transaction")
		return
	}

	metrics.TransactionsRecorded.WithLabelValues(string(resp.Transaction.Type)).Inc()
	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusCreated, "transaction recorded", resp)
}

// List returns the shop's log, newest first, with debit/credit totals.
// GET /api/v1/transactions?customer_id=&type=&period=
func (h *Handler) List(c *gin.Context) {
	var filters transaction.TransactionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), middleware.MustGetShopkeeperID(c), filters)
	if err != nil {
		response.FromError(c, err, "failed to list transactions")
		return
	}

	response.Success(c, http.StatusOK, "transactions", resp)
}

// Update edits a recorded entry. The customer balance is untouched; the
// client is expected to reconcile the customer afterwards.
// PUT /api/v1/transactions/:id
func (h *Handler) Update(c *gin.Context) {
	var req transaction.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	shopID := middleware.MustGetShopkeeperID(c)
	updated, err := h.service.Update(c.Request.Context(), shopID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err, "failed to update transaction")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusOK, "transaction updated", updated)
}

// Delete removes an entry from the log without balance adjustment.
// DELETE /api/v1/transactions/:id
func (h *Handler) Delete(c *gin.Context) {
	shopID := middleware.MustGetShopkeeperID(c)
	if err := h.service.Delete(c.Request.Context(), shopID, c.Param("id")); err != nil {
		response.FromError(c, err, "failed to delete transaction")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusOK, "transaction deleted", nil)
}

// Get returns one ledger entry.
// GET /api/v1/transactions/:id
func (h *Handler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), middleware.MustGetShopkeeperID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to load transaction")
		return
	}

	response.Success(c, http.StatusOK, "transaction", found)
}
