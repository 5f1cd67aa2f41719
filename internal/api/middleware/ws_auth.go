package middleware

import (
	"board-service/internal/auth"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WSAuth handles WebSocket authentication via query parameter. Browsers
// cannot set headers on the upgrade request, so the token rides the URL.
func WSAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from query parameter
		tokenString := c.Query("token")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
			return
		}

		// Remove "Bearer " prefix if present
		tokenString = strings.Replace(tokenString, "Bearer ", "", 1)

		userID, err := auth.VerifyToken(jwtSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Set user ID in context
		c.Set("user_id", userID)
		c.Next()
	}
}
