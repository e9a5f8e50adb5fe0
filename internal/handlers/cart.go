package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"agrilink/internal/catalog"
	"agrilink/internal/middleware"
	"agrilink/internal/session"
)

type addCartItemRequest struct {
	ProductID string            `json:"productId" binding:"required"`
	Quantity  *int              `json:"quantity" binding:"omitempty,min=1"`
	Variants  map[string]string `json:"variants"`
	Options   map[string]string `json:"options"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type discountRequest struct {
	Code string `json:"code" binding:"required"`
}

func GetCart(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Cart())
	}
}

func AddCartItem(sessions *session.Registry, products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Product(ctx, productID)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}

		view, err := s.AddItem(ctx, product, quantity, req.Variants, req.Options)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}

		zap.L().Info("cart item added",
			zap.String("owner", middleware.Owner(c)),
			zap.String("productId", req.ProductID),
			zap.Int("quantity", quantity),
		)
		c.JSON(http.StatusOK, view)
	}
}

func UpdateCartItem(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart/items/:id"
		defer handlePanic(c, route)

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := s.UpdateQuantity(ctx, c.Param("id"), *req.Quantity)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func RemoveCartItem(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:id"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := s.RemoveItem(ctx, c.Param("id"))
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func ClearCart(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := s.ClearCart(ctx)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func ApplyDiscount(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/discount"
		defer handlePanic(c, route)

		var req discountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "discount code is required")
			return
		}

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := s.ApplyDiscount(ctx, req.Code)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func RemoveDiscount(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/discount"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.RemoveDiscount())
	}
}
