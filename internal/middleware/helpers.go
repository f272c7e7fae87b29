// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetShopkeeperID returns the authenticated shopkeeper id. Only valid
// behind AuthMiddleware; the empty string means the route is miswired.
func MustGetShopkeeperID(c *gin.Context) string {
	return c.GetString(ContextShopkeeperID)
}

func MustGetJTI(c *gin.Context) string {
	return c.GetString(ContextJTI)
}

func MustGetShopName(c *gin.Context) string {
	return c.GetString(ContextShopName)
}
