package middleware

import (
	"net/http"
	"strings"

	"github.com/digitup/immo-api/internal/response"
	"github.com/digitup/immo-api/internal/tokens"
	"github.com/digitup/immo-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and checks that its ID is still
// the one stored for the user. A token revoked by logout, refresh, or a
// later login fails that check even before its expiry.
func AuthMiddleware(jwtSecret string, tokenStore *tokens.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.Error(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		current, err := tokenStore.Current(c.Request.Context(), claims.UserID)
		if err != nil || current == "" || current != claims.ID {
			response.Error(c, http.StatusUnauthorized, "Token has been revoked")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// CurrentClaims pulls the authenticated user's claims out of the context.
func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
