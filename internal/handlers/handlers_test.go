package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/addresses"
	"agrilink/internal/auth"
	"agrilink/internal/cart"
	"agrilink/internal/catalog"
	"agrilink/internal/handlers"
	"agrilink/internal/memstore"
	"agrilink/internal/middleware"
	"agrilink/internal/models"
	"agrilink/internal/orders"
	"agrilink/internal/session"
)

const (
	secret        = "handler-test-secret"
	adminEmail    = "admin@agrilink.co.tz"
	adminPassword = "s3cret-pass"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type client struct {
	t       *testing.T
	router  *gin.Engine
	headers map[string]string
}

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := memstore.NewDemo()
	require.NoError(t, err)
	require.NoError(t, store.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	orderService := orders.NewService(store, nil, nil)
	sessions, err := session.NewRegistry(16, session.Dependencies{
		Carts:     store,
		Orders:    orderService,
		Discounts: cart.NewStaticCatalog(cart.DefaultDiscountCodes()...),
		Pricing:   cart.DefaultPricing(),
	})
	require.NoError(t, err)

	r := gin.New()
	handlers.RegisterRoutes(r, handlers.Services{
		Catalog:   catalog.NewService(store, nil, time.Minute, nil),
		Sessions:  sessions,
		Orders:    orderService,
		Addresses: addresses.NewService(store),
		Auth:      auth.NewAuthenticator(store, secret, time.Minute),
		JWTSecret: secret,
		Ping:      func(context.Context) error { return nil },
	})
	return r
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, router: r, headers: map[string]string{}}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if id := w.Header().Get(middleware.SessionHeader); id != "" {
		c.headers[middleware.SessionHeader] = id
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func addressBody() gin.H {
	return gin.H{
		"firstName": "Asha",
		"lastName":  "Mwinyi",
		"address":   "Plot 12, Mikocheni",
		"city":      "Dar es Salaam",
		"region":    "Dar es Salaam",
		"phone":     "0712345678",
	}
}

func TestProductsAndCategories(t *testing.T) {
	c := newClient(t, newServer(t))

	w := c.do(http.MethodGet, "/products?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page catalog.Page
	decode(t, w, &page)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)

	w = c.do(http.MethodGet, "/products/"+memstore.DemoCornSeedsID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product models.Product
	decode(t, w, &product)
	assert.True(t, product.IsOnSale)
	assert.True(t, product.InStock)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products?page=0", nil).Code)

	w = c.do(http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.Category
	decode(t, w, &categories)
	assert.Len(t, categories, 6)
}

func TestCartLifecycle(t *testing.T) {
	c := newClient(t, newServer(t))

	w := c.do(http.MethodPost, "/cart/items", gin.H{"productId": memstore.DemoCornSeedsID.Hex(), "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, c.headers[middleware.SessionHeader])

	var view session.CartView
	decode(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(135700), view.Summary.Total)
	assert.Equal(t, "TZS", view.Currency)

	w = c.do(http.MethodPost, "/cart/discount", gin.H{"code": "welcome10"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Equal(t, int64(122130), view.Summary.Total)

	w = c.do(http.MethodPost, "/cart/discount", gin.H{"code": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	lineID := view.Items[0].ID
	w = c.do(http.MethodPatch, "/cart/items/"+lineID, gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Equal(t, 5, view.Summary.ItemCount)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPatch, "/cart/items/unknown", gin.H{"quantity": 1}).Code)

	w = c.do(http.MethodPatch, "/cart/items/"+lineID, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Empty(t, view.Items)

	// another guest has its own cart
	other := newClient(t, c.router)
	w = other.do(http.MethodGet, "/cart", nil)
	decode(t, w, &view)
	assert.Empty(t, view.Items)
}

func TestAddCartItemValidation(t *testing.T) {
	c := newClient(t, newServer(t))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/cart/items", gin.H{"productId": memstore.DemoCornSeedsID.Hex(), "quantity": 0}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/cart/items", gin.H{"productId": "x", "quantity": 1}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/cart/items", gin.H{"productId": primitive.NewObjectID().Hex(), "quantity": 1}).Code)
}

func TestAddCartItemDefaultsQuantityToOne(t *testing.T) {
	c := newClient(t, newServer(t))

	w := c.do(http.MethodPost, "/cart/items", gin.H{"productId": memstore.DemoCornSeedsID.Hex()})
	require.Equal(t, http.StatusOK, w.Code)
	var view session.CartView
	decode(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, 1, view.Summary.ItemCount)
}

func checkoutToReview(t *testing.T, c *client) {
	t.Helper()
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/checkout/shipping-address", addressBody()).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/checkout/advance", nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/checkout/payment-method", gin.H{"id": "mpesa", "accountNumber": "0754000111"}).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/checkout/advance", nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/checkout/shipping-method", gin.H{"id": "standard"}).Code)
}

func TestCheckoutValidationErrors(t *testing.T) {
	c := newClient(t, newServer(t))

	body := addressBody()
	body["phone"] = "12345"
	delete(body, "city")
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/checkout/shipping-address", body).Code)

	w := c.do(http.MethodPost, "/checkout/advance", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Please enter a valid Tanzanian phone number", resp.Fields["phone"])
	assert.Equal(t, "City is required", resp.Fields["city"])

	w = c.do(http.MethodGet, "/checkout", nil)
	var state session.CheckoutView
	decode(t, w, &state)
	assert.Equal(t, "shipping", state.Step.String())
	assert.Len(t, state.Errors, 2)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/checkout/retreat", nil).Code)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/checkout/place-order", nil).Code)
}

func TestShippingMethodMustServeRegion(t *testing.T) {
	c := newClient(t, newServer(t))
	body := addressBody()
	body["region"] = "Mwanza"
	body["city"] = "Mwanza"
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/checkout/shipping-address", body).Code)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/checkout/shipping-method", gin.H{"id": "express"}).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodPut, "/checkout/shipping-method", gin.H{"id": "standard"}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/checkout/shipping-method", gin.H{"id": "drone"}).Code)

	w := c.do(http.MethodGet, "/checkout/shipping-methods?region=Mwanza", nil)
	var methods []models.ShippingMethod
	decode(t, w, &methods)
	require.Len(t, methods, 1)
	assert.Equal(t, "standard", methods[0].ID)
}

func TestPlaceOrderAndCustomerOrders(t *testing.T) {
	c := newClient(t, newServer(t))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/items", gin.H{"productId": memstore.DemoFertilizerID.Hex(), "quantity": 1}).Code)
	checkoutToReview(t, c)

	w := c.do(http.MethodPost, "/checkout/place-order", gin.H{"notes": "Call on arrival"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, w, &order)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Call on arrival", order.Notes)
	assert.Regexp(t, `^AG\d{6}[0-9A-Z]{3}$`, order.OrderNumber)

	w = c.do(http.MethodGet, "/cart", nil)
	var view session.CartView
	decode(t, w, &view)
	assert.Empty(t, view.Items)

	w = c.do(http.MethodGet, "/orders", nil)
	var mine []models.Order
	decode(t, w, &mine)
	require.Len(t, mine, 1)

	// other shoppers cannot see or cancel it
	other := newClient(t, c.router)
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodGet, "/orders/"+order.ID.Hex(), nil).Code)
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodPost, "/orders/"+order.ID.Hex()+"/cancel", nil).Code)

	w = c.do(http.MethodPost, "/orders/"+order.ID.Hex()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.Equal(t, models.StatusCancelled, order.Status)
	assert.Equal(t, "Order cancelled by customer", order.StatusHistory[len(order.StatusHistory)-1].Note)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/orders/"+order.ID.Hex()+"/cancel", nil).Code)
}

func adminClient(t *testing.T, r *gin.Engine) *client {
	t.Helper()
	c := newClient(t, r)
	w := c.do(http.MethodPost, "/admin/login", gin.H{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	c.headers["Authorization"] = "Bearer " + resp.Token
	return c
}

func TestAdminLogin(t *testing.T) {
	c := newClient(t, newServer(t))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/admin/login", gin.H{"email": adminEmail, "password": "wrong"}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/admin/login", gin.H{"email": adminEmail}).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/admin/api/orders", nil).Code)
}

func TestAdminOrderManagement(t *testing.T) {
	r := newServer(t)
	shopper := newClient(t, r)
	require.Equal(t, http.StatusOK, shopper.do(http.MethodPost, "/cart/items", gin.H{"productId": memstore.DemoPesticideID.Hex(), "quantity": 1}).Code)
	checkoutToReview(t, shopper)
	w := shopper.do(http.MethodPost, "/checkout/place-order", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decode(t, w, &order)

	admin := adminClient(t, r)
	path := "/admin/api/orders/" + order.ID.Hex()

	w = admin.do(http.MethodGet, "/admin/api/orders?status=pending&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Order
	decode(t, w, &list)
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodGet, "/admin/api/orders?status=lost", nil).Code)
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodGet, "/admin/api/orders?limit=-1", nil).Code)

	w = admin.do(http.MethodPatch, path+"/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.Equal(t, "Order status updated to confirmed", order.StatusHistory[1].Note)

	assert.Equal(t, http.StatusConflict, admin.do(http.MethodPatch, path+"/status", gin.H{"status": "delivered"}).Code)

	w = admin.do(http.MethodPatch, path, gin.H{"trackingNumber": "TRK-MANUAL-1"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.Equal(t, "TRK-MANUAL-1", order.TrackingNumber)

	assert.Equal(t, http.StatusOK, admin.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodGet, path, nil).Code)
}

func TestSavedAddresses(t *testing.T) {
	r := newServer(t)
	userID := primitive.NewObjectID()
	token, err := auth.IssueUserToken(userID, "farmer@example.com", secret, time.Minute)
	require.NoError(t, err)

	guest := newClient(t, r)
	assert.Equal(t, http.StatusUnauthorized, guest.do(http.MethodGet, "/user/addresses", nil).Code)

	user := newClient(t, r)
	user.headers["Authorization"] = "Bearer " + token

	body := addressBody()
	body["label"] = "Farm"
	w := user.do(http.MethodPost, "/user/addresses", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved models.Address
	decode(t, w, &saved)
	assert.True(t, saved.IsDefault)

	bad := addressBody()
	bad["phone"] = "999"
	assert.Equal(t, http.StatusBadRequest, user.do(http.MethodPost, "/user/addresses", bad).Code)

	w = user.do(http.MethodPut, "/checkout/shipping-address", gin.H{"addressId": saved.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var state session.CheckoutView
	decode(t, w, &state)
	require.NotNil(t, state.ShippingAddress)
	assert.Equal(t, "Plot 12, Mikocheni", state.ShippingAddress.Address)

	assert.Equal(t, http.StatusNotFound, user.do(http.MethodPut, "/checkout/shipping-address", gin.H{"addressId": "missing"}).Code)
	assert.Equal(t, http.StatusUnauthorized, guest.do(http.MethodPut, "/checkout/shipping-address", gin.H{"addressId": saved.ID}).Code)

	assert.Equal(t, http.StatusOK, user.do(http.MethodDelete, "/user/addresses/"+saved.ID, nil).Code)
	w = user.do(http.MethodGet, "/user/addresses", nil)
	var list []models.Address
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestHealth(t *testing.T) {
	c := newClient(t, newServer(t))
	w := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
