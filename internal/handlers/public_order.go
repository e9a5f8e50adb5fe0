package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrilink/internal/middleware"
	"agrilink/internal/models"
	"agrilink/internal/orders"
)

/*
GET /orders
- orders of the current shopper, newest first
- optional ?status=
*/
func GetMyOrders(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		status := models.OrderStatus(strings.TrimSpace(c.Query("status")))
		list, err := service.ForOwner(ctx, middleware.Owner(c), status)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetMyOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := service.GetForOwner(ctx, middleware.Owner(c), id)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CancelMyOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/cancel"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := service.CancelForOwner(ctx, middleware.Owner(c), id)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}

		zap.L().Info("order cancelled by customer",
			zap.String("owner", middleware.Owner(c)),
			zap.String("orderNumber", order.OrderNumber),
		)
		c.JSON(http.StatusOK, order)
	}
}
