package poolapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wampcore/pkg/common/worker"
)

// Uptimer reports how long the frame dispatcher has been running.
type Uptimer interface {
	Uptime() time.Duration
}

// RegisterRoutes registers pool stats endpoints. up may be nil.
func RegisterRoutes(rg *gin.RouterGroup, pool *worker.Pool, up Uptimer) {
	rg.GET("/stats", func(c *gin.Context) {
		resp := gin.H{"pool": pool.Stats()}
		if up != nil {
			resp["uptime_ms"] = up.Uptime().Milliseconds()
		}
		c.JSON(http.StatusOK, resp)
	})
}
