package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrilink/internal/addresses"
	"agrilink/internal/middleware"
	"agrilink/internal/models"
)

type addressRequest struct {
	Label     string `json:"label"`
	IsDefault bool   `json:"isDefault"`
	models.ShippingAddress
}

func currentUser(c *gin.Context, route string) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		zap.L().Warn("userId missing in context", zap.String("route", route))
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return "", false
	}
	return userID.Hex(), true
}

func GetUserAddresses(book *addresses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/addresses"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := book.List(ctx, userID)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateUserAddress(book *addresses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/addresses"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		created, err := book.Add(ctx, userID, req.Label, req.ShippingAddress, req.IsDefault)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func UpdateUserAddress(book *addresses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := book.Update(ctx, userID, c.Param("id"), req.Label, req.ShippingAddress, req.IsDefault)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteUserAddress(book *addresses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := book.Delete(ctx, userID, c.Param("id")); err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}
