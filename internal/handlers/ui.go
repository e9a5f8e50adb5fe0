package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrilink/internal/money"
)

func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "agrilink", "currency": money.Currency})
	}
}

// Health reports whether the data gateway answers a ping.
func Health(ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /health"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := ping(ctx); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
