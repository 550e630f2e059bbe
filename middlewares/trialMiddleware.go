package middlewares

import (
	"net/http"

	"github.com/caretrackhq/assettrack_backend/config"
	"github.com/caretrackhq/assettrack_backend/utils"
	"github.com/gin-gonic/gin"
)

// TrialGateMiddleware blocks report exports on trial deployments. It only
// reads the feature flag; session/auth handling lives outside this service.
func TrialGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isTrial := config.TrialMode()
		ctx := utils.SetIsTrialInContext(c.Request.Context(), isTrial)
		c.Request = c.Request.WithContext(ctx)

		if isTrial {
			c.JSON(http.StatusForbidden, gin.H{"error": "report export is not available on trial"})
			c.Abort()
			return
		}
		c.Next()
	}
}
