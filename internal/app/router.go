// internal/app/router.go
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	authhandler "khata-service/internal/handlers/auth"
	customerhandler "khata-service/internal/handlers/customer"
	dashboardhandler "khata-service/internal/handlers/dashboard"
	transactionhandler "khata-service/internal/handlers/transaction"
	wshandler "khata-service/internal/handlers/websocket"
	"khata-service/internal/middleware"
	"khata-service/internal/pkg/response"
	authsvc "khata-service/internal/service/auth"
)

type Handlers struct {
	Auth        *authhandler.Handler
	Customer    *customerhandler.Handler
	Transaction *transactionhandler.Handler
	Dashboard   *dashboardhandler.Handler
	WebSocket   *wshandler.Handler
}

func SetupRouter(h *Handlers, authService *authsvc.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.CORS(),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", h.WebSocket.Connect)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)

		authed := authGroup.Group("", middleware.AuthMiddleware(authService))
		authed.GET("/me", h.Auth.Me)
		authed.POST("/logout", h.Auth.Logout)
		authed.POST("/logout-all", h.Auth.LogoutAll)
	}

	protected := api.Group("", middleware.AuthMiddleware(authService))
	{
		customers := protected.Group("/customers")
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/stats", h.Customer.Stats)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.POST("/:id/reconcile", h.Customer.Reconcile)

		transactions := protected.Group("/transactions")
		transactions.POST("", h.Transaction.Record)
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.PUT("/:id", h.Transaction.Update)
		transactions.DELETE("/:id", h.Transaction.Delete)

		protected.GET("/dashboard", h.Dashboard.Summary)
	}

	return r
}
