package middleware

import (
	"fmt"
	"net/http"

	"github.com/digitup/immo-api/internal/response"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware converts panics into a 500 envelope. The panic value is
// only echoed back outside production; otherwise the message is generic.
func RecoveryMiddleware(isProduction bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)

		message := "An unexpected error occurred. Please try again later"
		if !isProduction {
			message = fmt.Sprintf("%v", recovered)
		}
		response.Error(c, http.StatusInternalServerError, message)
	})
}
