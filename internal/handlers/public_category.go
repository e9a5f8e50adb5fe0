package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrilink/internal/catalog"
)

func GetCategories(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		categories, err := products.Categories(ctx)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}

		zap.L().Debug("returning categories", zap.String("route", route), zap.Int("count", len(categories)))
		c.JSON(http.StatusOK, categories)
	}
}
