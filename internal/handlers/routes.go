package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"agrilink/internal/addresses"
	"agrilink/internal/auth"
	"agrilink/internal/catalog"
	"agrilink/internal/middleware"
	"agrilink/internal/orders"
	"agrilink/internal/session"
)

type Services struct {
	Catalog   *catalog.Service
	Sessions  *session.Registry
	Orders    *orders.Service
	Addresses *addresses.Service
	Auth      *auth.Authenticator
	JWTSecret string
	Ping      func(context.Context) error
}

func RegisterRoutes(r *gin.Engine, svc Services) {
	r.Use(middleware.RequestID())

	r.GET("/", Home())
	r.GET("/health", Health(svc.Ping))

	r.GET("/products", GetProducts(svc.Catalog))
	r.GET("/products/:id", GetProduct(svc.Catalog))
	r.GET("/categories", GetCategories(svc.Catalog))
	r.GET("/checkout/shipping-methods", GetShippingMethods())
	r.GET("/checkout/payment-methods", GetPaymentMethods())

	r.POST("/admin/login", AdminLogin(svc.Auth))

	shopper := r.Group("/")
	shopper.Use(middleware.Identity(svc.JWTSecret))
	{
		shopper.GET("/cart", GetCart(svc.Sessions))
		shopper.POST("/cart/items", AddCartItem(svc.Sessions, svc.Catalog))
		shopper.PATCH("/cart/items/:id", UpdateCartItem(svc.Sessions))
		shopper.DELETE("/cart/items/:id", RemoveCartItem(svc.Sessions))
		shopper.DELETE("/cart", ClearCart(svc.Sessions))
		shopper.POST("/cart/discount", ApplyDiscount(svc.Sessions))
		shopper.DELETE("/cart/discount", RemoveDiscount(svc.Sessions))

		shopper.GET("/checkout", GetCheckout(svc.Sessions))
		shopper.PUT("/checkout/shipping-address", SetShippingAddress(svc.Sessions, svc.Addresses))
		shopper.PUT("/checkout/payment-method", SetPaymentMethod(svc.Sessions))
		shopper.PUT("/checkout/shipping-method", SetShippingMethod(svc.Sessions))
		shopper.POST("/checkout/advance", AdvanceCheckout(svc.Sessions))
		shopper.POST("/checkout/retreat", RetreatCheckout(svc.Sessions))
		shopper.POST("/checkout/reset", ResetCheckout(svc.Sessions))
		shopper.POST("/checkout/place-order", PlaceOrder(svc.Sessions))

		shopper.GET("/orders", GetMyOrders(svc.Orders))
		shopper.GET("/orders/:id", GetMyOrder(svc.Orders))
		shopper.POST("/orders/:id/cancel", CancelMyOrder(svc.Orders))
	}

	user := r.Group("/user")
	user.Use(middleware.Identity(svc.JWTSecret), middleware.RequireUser())
	{
		user.GET("/addresses", GetUserAddresses(svc.Addresses))
		user.POST("/addresses", CreateUserAddress(svc.Addresses))
		user.PUT("/addresses/:id", UpdateUserAddress(svc.Addresses))
		user.DELETE("/addresses/:id", DeleteUserAddress(svc.Addresses))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(svc.JWTSecret))
	{
		admin.GET("/orders", GetAllOrders(svc.Orders))
		admin.GET("/orders/:id", GetOrder(svc.Orders))
		admin.PATCH("/orders/:id/status", UpdateOrderStatus(svc.Orders))
		admin.PATCH("/orders/:id", UpdateOrder(svc.Orders))
		admin.DELETE("/orders/:id", DeleteOrder(svc.Orders))
	}
}
