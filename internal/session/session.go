// Package session binds one shopper's cart and checkout together and
// coordinates them with the gateways and the order service.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"agrilink/internal/cart"
	"agrilink/internal/checkout"
	"agrilink/internal/models"
	"agrilink/internal/money"
	"agrilink/internal/orders"
)

var ErrProductUnavailable = errors.New("product is not available")

type Dependencies struct {
	Carts     cart.Store
	Orders    *orders.Service
	Discounts cart.DiscountCatalog
	Pricing   cart.Pricing
	Logger    *zap.Logger
}

// Session is the cart and checkout of a single owner. All methods are safe
// for concurrent use; mutations of one session are serialized.
type Session struct {
	mu       sync.Mutex
	owner    string
	deps     Dependencies
	cart     *cart.Cart
	checkout *checkout.Checkout
}

// Open loads the owner's persisted cart lines and starts a fresh checkout.
func Open(ctx context.Context, owner string, deps Dependencies) (*Session, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	lines, err := deps.Carts.LoadLines(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load cart for %s: %w", owner, err)
	}
	return &Session{
		owner:    owner,
		deps:     deps,
		cart:     cart.Restore(deps.Pricing, lines),
		checkout: checkout.New(),
	}, nil
}

func (s *Session) Owner() string {
	return s.owner
}

// Processing reports whether an order submission is in flight.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Processing()
}

// CartView is a snapshot of the cart for presentation.
type CartView struct {
	Items    []models.CartLine    `json:"items"`
	Summary  models.CartSummary   `json:"summary"`
	Discount *models.DiscountCode `json:"discount,omitempty"`
	Currency string               `json:"currency"`
}

func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() CartView {
	view := CartView{
		Items:    s.cart.Lines(),
		Summary:  s.cart.Summary(),
		Currency: money.Currency,
	}
	if d, ok := s.cart.Discount(); ok {
		view.Discount = &d
	}
	return view
}

func (s *Session) AddItem(ctx context.Context, product models.Product, quantity int, variants, options map[string]string) (CartView, error) {
	if !product.IsActive || product.StockQuantity <= 0 {
		return CartView{}, ErrProductUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	line, err := next.Add(product, quantity, variants, options)
	if err != nil {
		return CartView{}, err
	}
	if err := s.deps.Carts.SaveLine(ctx, s.owner, line); err != nil {
		return CartView{}, fmt.Errorf("save cart line: %w", err)
	}
	s.cart = next
	return s.viewLocked(), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Session) UpdateQuantity(ctx context.Context, lineID string, quantity int) (CartView, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, lineID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	line, err := next.SetQuantity(lineID, quantity)
	if err != nil {
		return CartView{}, err
	}
	if err := s.deps.Carts.SaveLine(ctx, s.owner, line); err != nil {
		return CartView{}, fmt.Errorf("save cart line: %w", err)
	}
	s.cart = next
	return s.viewLocked(), nil
}

// RemoveItem deletes a line. Unknown lines are ignored.
func (s *Session) RemoveItem(ctx context.Context, lineID string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	if !next.Remove(lineID) {
		return s.viewLocked(), nil
	}
	if err := s.deps.Carts.DeleteLine(ctx, s.owner, lineID); err != nil {
		return CartView{}, fmt.Errorf("delete cart line: %w", err)
	}
	s.cart = next
	return s.viewLocked(), nil
}

func (s *Session) ClearCart(ctx context.Context) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Carts.ClearLines(ctx, s.owner); err != nil {
		return CartView{}, fmt.Errorf("clear cart: %w", err)
	}
	s.cart.Clear()
	return s.viewLocked(), nil
}

func (s *Session) ApplyDiscount(ctx context.Context, code string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.cart.ApplyDiscount(ctx, s.deps.Discounts, code); err != nil {
		return CartView{}, err
	}
	return s.viewLocked(), nil
}

func (s *Session) RemoveDiscount() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.RemoveDiscount()
	return s.viewLocked()
}

// CheckoutView is the checkout state together with the cart it will order.
type CheckoutView struct {
	checkout.State
	Cart CartView `json:"cart"`
}

func (s *Session) Checkout() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutViewLocked()
}

func (s *Session) checkoutViewLocked() CheckoutView {
	return CheckoutView{State: s.checkout.State(), Cart: s.viewLocked()}
}

func (s *Session) SetShippingAddress(address models.ShippingAddress) (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.checkout.SetShippingAddress(address)
	return s.checkoutViewLocked(), err
}

func (s *Session) SetPaymentMethod(method models.PaymentMethod) (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.checkout.SetPaymentMethod(method)
	return s.checkoutViewLocked(), err
}

func (s *Session) SetShippingMethod(method models.ShippingMethod) (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.checkout.SetShippingMethod(method)
	return s.checkoutViewLocked(), err
}

// Advance returns the resulting view even when validation fails so callers
// can show the recorded field errors.
func (s *Session) Advance() (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.checkout.Advance()
	return s.checkoutViewLocked(), err
}

func (s *Session) Retreat() (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.checkout.Retreat()
	return s.checkoutViewLocked(), err
}

func (s *Session) ResetCheckout() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Reset()
	return s.checkoutViewLocked()
}

// PlaceOrder turns the cart and checkout selections into an order. The
// session lock is released while the order is being created; the checkout's
// processing flag rejects a second submission in the meantime. On success
// the cart is cleared unless it was modified while the order was in flight.
func (s *Session) PlaceOrder(ctx context.Context, notes string) (models.Order, error) {
	s.mu.Lock()
	if d, ok := s.cart.Discount(); ok {
		s.checkout.SetDiscountCode(d.Code)
	} else {
		s.checkout.SetDiscountCode("")
	}
	sub, err := s.checkout.Begin()
	if err != nil {
		s.mu.Unlock()
		return models.Order{}, err
	}
	draft := orders.Draft{
		OwnerID:         s.owner,
		Lines:           s.cart.Lines(),
		Summary:         s.cart.Summary(),
		ShippingAddress: sub.ShippingAddress,
		PaymentMethod:   sub.PaymentMethod,
		ShippingMethod:  sub.ShippingMethod,
		DiscountCode:    sub.DiscountCode,
		Notes:           notes,
	}
	version := s.cart.Version()
	s.mu.Unlock()

	return s.submit(ctx, sub, draft, version)
}

func (s *Session) submit(ctx context.Context, sub checkout.Submission, draft orders.Draft, version uint64) (order models.Order, err error) {
	placed := false
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.checkout.Finish(sub, order.OrderNumber, placed) {
			s.deps.Logger.Info("checkout was reset while the order was placed",
				zap.String("owner", s.owner), zap.String("orderNumber", order.OrderNumber))
		}
		if placed {
			s.clearAfterOrderLocked(context.WithoutCancel(ctx), version, order.OrderNumber)
		}
	}()

	order, err = s.deps.Orders.Create(ctx, draft)
	placed = err == nil
	return order, err
}

func (s *Session) clearAfterOrderLocked(ctx context.Context, version uint64, orderNumber string) {
	if s.cart.Version() != version {
		s.deps.Logger.Info("cart changed while the order was placed, keeping it",
			zap.String("owner", s.owner), zap.String("orderNumber", orderNumber))
		return
	}
	if err := s.deps.Carts.ClearLines(ctx, s.owner); err != nil {
		s.deps.Logger.Warn("failed to clear cart after order",
			zap.String("owner", s.owner), zap.String("orderNumber", orderNumber), zap.Error(err))
		return
	}
	s.cart.Clear()
}
