// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"khata-service/internal/pkg/response"
	"khata-service/internal/service/auth"
)

const (
	ContextShopkeeperID = "shopkeeper_id"
	ContextShopName     = "shop_name"
	ContextJTI          = "jti"
)

// AuthMiddleware authenticates the request with a bearer token and stores
// the shopkeeper identity in the gin context.
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			response.Unauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			return
		}

		c.Set(ContextShopkeeperID, claims.ShopkeeperID)
		c.Set(ContextShopName, claims.ShopName)
		c.Set(ContextJTI, claims.ID)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
