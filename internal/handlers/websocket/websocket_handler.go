// internal/handlers/websocket/websocket_handler.go
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"khata-service/internal/pkg/response"
	ws "khata-service/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin is enforced by the CORS layer for the REST API; the socket
	// carries its own token, so cross-origin upgrades are acceptable
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewHandler(hub *ws.Hub, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Connect upgrades to a websocket and streams the shop's ledger events.
// Browsers cannot set headers on the upgrade request, so the token rides
// the query string.
// GET /ws?token=
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "missing token")
		return
	}

	shopkeeperID, err := h.hub.Authenticate(c.Request.Context(), token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired session")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ws.NewClient(h.hub, conn, shopkeeperID).Start()
}
