package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"agrilink/internal/addresses"
	"agrilink/internal/auth"
	"agrilink/internal/cart"
	"agrilink/internal/catalog"
	"agrilink/internal/checkout"
	"agrilink/internal/middleware"
	"agrilink/internal/orders"
	"agrilink/internal/session"
)

const requestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		zap.L().Error("panic recovered", zap.String("route", route), zap.Any("panic", r))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	zap.L().Info("returning error",
		zap.String("route", route),
		zap.Int("status", status),
		zap.String("error", message),
		zap.String("requestId", c.GetString(middleware.ContextRequestID)),
	)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondWithDomainError maps service errors onto HTTP responses.
func respondWithDomainError(c *gin.Context, route string, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		zap.L().Info("validation failed", zap.String("route", route), zap.Any("fields", verr.Fields))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidCode),
		errors.Is(err, cart.ErrBelowMinimum),
		errors.Is(err, orders.ErrUnknownStatus),
		errors.Is(err, orders.ErrEmptyOrder):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, addresses.ErrAddressNotFound):
		respondWithError(c, http.StatusNotFound, route, err.Error())
	case errors.Is(err, session.ErrProductUnavailable),
		errors.Is(err, checkout.ErrAlreadyProcessing),
		errors.Is(err, checkout.ErrNotReviewing),
		errors.Is(err, checkout.ErrNoNextStep),
		errors.Is(err, checkout.ErrNoPreviousStep),
		errors.Is(err, orders.ErrIllegalTransition),
		errors.Is(err, orders.ErrStatusChanged):
		respondWithError(c, http.StatusConflict, route, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondWithError(c, http.StatusUnauthorized, route, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondWithError(c, http.StatusGatewayTimeout, route, "upstream timeout")
	default:
		zap.L().Error("request failed", zap.String("route", route), zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func objectIDParam(c *gin.Context, route, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// shopperSession returns the session of the owner resolved by
// middleware.Identity.
func shopperSession(c *gin.Context, route string, sessions *session.Registry) (*session.Session, bool) {
	owner := middleware.Owner(c)
	if owner == "" {
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return nil, false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := sessions.Get(ctx, owner)
	if err != nil {
		respondWithDomainError(c, route, err)
		return nil, false
	}
	return s, true
}
