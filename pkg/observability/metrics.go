package observability

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PrometheusHandler adapts the scrape handler to a gin route.
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	if handler == nil {
		return func(c *gin.Context) {
			c.AbortWithStatus(http.StatusServiceUnavailable)
		}
	}
	return gin.WrapH(handler)
}
