// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-service/internal/middleware"
	"khata-service/internal/pkg/response"
	"khata-service/internal/service/dashboard"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

// Summary returns the shop's home screen aggregates.
// GET /api/v1/dashboard
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), middleware.MustGetShopkeeperID(c))
	if err != nil {
		response.FromError(c, err, "failed to load dashboard")
		return
	}

	response.Success(c, http.StatusOK, "dashboard", summary)
}
