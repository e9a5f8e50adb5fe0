package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrilink/internal/addresses"
	"agrilink/internal/checkout"
	"agrilink/internal/middleware"
	"agrilink/internal/models"
	"agrilink/internal/session"
)

// shippingAddressRequest is either a saved address of the signed-in user
// (addressId) or a full address.
type shippingAddressRequest struct {
	AddressID string `json:"addressId"`
	models.ShippingAddress
}

type paymentMethodRequest struct {
	ID            string             `json:"id"`
	Type          models.PaymentType `json:"type"`
	Provider      string             `json:"provider"`
	AccountNumber string             `json:"accountNumber"`
}

type shippingMethodRequest struct {
	ID string `json:"id" binding:"required"`
}

type placeOrderRequest struct {
	Notes string `json:"notes"`
}

func GetCheckout(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /checkout"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Checkout())
	}
}

func SetShippingAddress(sessions *session.Registry, book *addresses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /checkout/shipping-address"
		defer handlePanic(c, route)

		var req shippingAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		address := req.ShippingAddress
		if id := strings.TrimSpace(req.AddressID); id != "" {
			userID, ok := middleware.UserID(c)
			if !ok {
				respondWithError(c, http.StatusUnauthorized, route, "sign in to use saved addresses")
				return
			}
			ctx, cancel := requestContext(c)
			defer cancel()

			saved, err := book.Get(ctx, userID.Hex(), id)
			if err != nil {
				respondWithDomainError(c, route, err)
				return
			}
			address = saved.ShippingAddress
		}

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		view, err := s.SetShippingAddress(address)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func SetPaymentMethod(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /checkout/payment-method"
		defer handlePanic(c, route)

		var req paymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		method := models.PaymentMethod{Type: req.Type, Provider: strings.TrimSpace(req.Provider)}
		if req.ID != "" {
			known, ok := checkout.PaymentMethodByID(req.ID)
			if !ok {
				respondWithError(c, http.StatusBadRequest, route, "Payment method is not supported")
				return
			}
			method = known
		}
		method.AccountNumber = strings.TrimSpace(req.AccountNumber)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		view, err := s.SetPaymentMethod(method)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func SetShippingMethod(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /checkout/shipping-method"
		defer handlePanic(c, route)

		var req shippingMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Shipping method is required")
			return
		}
		method, found := checkout.ShippingMethodByID(req.ID)
		if !found {
			respondWithError(c, http.StatusBadRequest, route, "unknown shipping method")
			return
		}

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		if address := s.Checkout().ShippingAddress; address != nil && !method.ServesRegion(address.Region) {
			respondWithError(c, http.StatusBadRequest, route,
				fmt.Sprintf("%s is not available in %s", method.Name, address.Region))
			return
		}
		view, err := s.SetShippingMethod(method)
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func AdvanceCheckout(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/advance"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		view, err := s.Advance()
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func RetreatCheckout(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/retreat"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		view, err := s.Retreat()
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func ResetCheckout(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/reset"
		defer handlePanic(c, route)

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.ResetCheckout())
	}
}

func PlaceOrder(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/place-order"
		defer handlePanic(c, route)

		var req placeOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid request body")
				return
			}
		}

		s, ok := shopperSession(c, route, sessions)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := s.PlaceOrder(ctx, strings.TrimSpace(req.Notes))
		if err != nil {
			respondWithDomainError(c, route, err)
			return
		}

		zap.L().Info("order placed",
			zap.String("owner", middleware.Owner(c)),
			zap.String("orderNumber", order.OrderNumber),
		)
		c.JSON(http.StatusCreated, order)
	}
}

func GetShippingMethods() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, checkout.ShippingMethodsFor(strings.TrimSpace(c.Query("region"))))
	}
}

func GetPaymentMethods() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, checkout.DefaultPaymentMethods())
	}
}
