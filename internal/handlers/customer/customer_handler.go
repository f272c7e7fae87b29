// internal/handlers/customer/customer_handler.go
package customer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-service/internal/domain/customer"
	"khata-service/internal/middleware"
	"khata-service/internal/pkg/response"
	customersvc "khata-service/internal/service/customer"
	"khata-service/internal/service/dashboard"
)

type Handler struct {
	service   *customersvc.Service
	dashboard *dashboard.Service
}

func NewHandler(service *customersvc.Service, dashboard *dashboard.Service) *Handler {
	return &Handler{service: service, dashboard: dashboard}
}

// Create adds a customer to the shop's book.
// POST /api/v1/customers
func (h *Handler) Create(c *gin.Context) {
	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	shopID := middleware.MustGetShopkeeperID(c)
	created, err := h.service.Create(c.Request.Context(), shopID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create customer")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusCreated, "customer created", created)
}

// List returns the shop's customers with optional search and due filter.
// GET /api/v1/customers?search=&filter=
func (h *Handler) List(c *gin.Context) {
	var filters customer.CustomerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), middleware.MustGetShopkeeperID(c), filters)
	if err != nil {
		response.FromError(c, err, "failed to list customers")
		return
	}

	response.Success(c, http.StatusOK, "customers", resp)
}

// Get returns one customer.
// GET /api/v1/customers/:id
func (h *Handler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), middleware.MustGetShopkeeperID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to load customer")
		return
	}

	response.Success(c, http.StatusOK, "customer", found)
}

// Update applies partial edits to a customer.
// PUT /api/v1/customers/:id
func (h *Handler) Update(c *gin.Context) {
	var req customer.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	shopID := middleware.MustGetShopkeeperID(c)
	updated, err := h.service.Update(c.Request.Context(), shopID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err, "failed to update customer")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusOK, "customer updated", updated)
}

// Delete removes a customer. Their transaction history stays.
// DELETE /api/v1/customers/:id
func (h *Handler) Delete(c *gin.Context) {
	shopID := middleware.MustGetShopkeeperID(c)
	if err := h.service.Delete(c.Request.Context(), shopID, c.Param("id")); err != nil {
		response.FromError(c, err, "failed to delete customer")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusOK, "customer deleted", nil)
}

// Stats summarizes the shop's customer book.
// GET /api/v1/customers/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.MustGetShopkeeperID(c))
	if err != nil {
		response.FromError(c, err, "failed to compute stats")
		return
	}

	response.Success(c, http.StatusOK, "customer stats", stats)
}

// Reconcile replays a customer's history and repairs their balance.
// POST /api/v1/customers/:id/reconcile
func (h *Handler) Reconcile(c *gin.Context) {
	shopID := middleware.MustGetShopkeeperID(c)
	repaired, err := h.service.Reconcile(c.Request.Context(), shopID, c.Param("id"))
	if err != nil {
		response.FromError(c, err, "failed to reconcile balance")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), shopID)
	response.Success(c, http.StatusOK, "balance reconciled", repaired)
}
