package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrilink/internal/catalog"
)

/*
GET /products
- category, search, page and limit are optional
- response: items + total + page + limit
*/
func GetProducts(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		zap.L().Debug("hit",
			zap.String("route", route),
			zap.String("page", c.Query("page")),
			zap.String("limit", c.Query("limit")),
			zap.String("category", c.Query("category")),
			zap.String("search", c.Query("search")),
		)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := products.Products(ctx, catalog.Query{
			CategoryID: strings.TrimSpace(c.Query("category")),
			Search:     strings.TrimSpace(c.Query("search")),
			Page:       page,
			Limit:      limit,
		})
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func GetProduct(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Product(ctx, id)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
