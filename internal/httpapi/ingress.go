// Package httpapi implements the external I/O edge described in spec §6:
// the offer-submission ingress, the offer-hook egress (or stdout sink when
// no hook is configured), and the metrics endpoint.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dexie-space/splash/internal/kernel"
	"github.com/dexie-space/splash/internal/logger"
)

var zlog = logger.New("httpapi")

type submitOfferRequest struct {
	Offer string `json:"offer" binding:"required"`
}

// NewIngressRouter builds the gin engine that accepts offer-submission
// requests and turns each into a kernel.Command on cmds.
func NewIngressRouter(cmds chan<- kernel.Command) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(defaultCorsConfig()))

	router.POST("/", func(c *gin.Context) {
		var req submitOfferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		select {
		case cmds <- kernel.Command{Offer: req.Offer}:
			c.JSON(http.StatusOK, gin.H{"status": "queued"})
		case <-c.Request.Context().Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
		}
	})

	return router
}

func defaultCorsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}
