// Package orders owns the order lifecycle: creation from a checked-out cart,
// status transitions with history, administrative edits and queries.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"agrilink/internal/models"
)

const (
	DefaultRecentLimit = 10

	notePlaced    = "Order placed successfully"
	noteCancelled = "Order cancelled by customer"
)

// Draft is everything an order is created from. All of it is copied into the
// order verbatim.
type Draft struct {
	OwnerID         string
	Lines           []models.CartLine
	Summary         models.CartSummary
	ShippingAddress models.ShippingAddress
	PaymentMethod   models.PaymentMethod
	ShippingMethod  models.ShippingMethod
	DiscountCode    string
	Notes           string
}

type Service struct {
	store   Store
	numbers *NumberGenerator
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(store Store, numbers *NumberGenerator, logger *zap.Logger) *Service {
	if numbers == nil {
		numbers = NewNumberGenerator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		numbers: numbers,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create snapshots draft into a new pending order and persists it. Clearing
// the cart is the caller's job.
func (s *Service) Create(ctx context.Context, draft Draft) (models.Order, error) {
	if len(draft.Lines) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	now := s.now()
	orderNumber, err := s.numbers.OrderNumber(now)
	if err != nil {
		return models.Order{}, err
	}
	tracking, err := s.numbers.TrackingNumber(now)
	if err != nil {
		return models.Order{}, err
	}
	estimated := now.AddDate(0, 0, draft.ShippingMethod.TransitDays())

	items := make([]models.CartLine, len(draft.Lines))
	for i, line := range draft.Lines {
		items[i] = snapshotLine(line)
	}
	shipping := draft.ShippingMethod
	shipping.Regions = append([]string(nil), draft.ShippingMethod.Regions...)

	order := models.Order{
		OrderNumber:       orderNumber,
		OwnerID:           draft.OwnerID,
		Status:            models.StatusPending,
		Items:             items,
		Subtotal:          draft.Summary.Subtotal,
		Tax:               draft.Summary.Tax,
		ShippingCost:      draft.Summary.ShippingCost,
		DiscountAmount:    draft.Summary.DiscountAmount,
		Total:             draft.Summary.Total,
		ShippingAddress:   draft.ShippingAddress,
		PaymentMethod:     draft.PaymentMethod,
		ShippingMethod:    shipping,
		DiscountCode:      draft.DiscountCode,
		CustomerName:      draft.ShippingAddress.FullName(),
		CustomerPhone:     draft.ShippingAddress.Phone,
		Priority:          models.PriorityNormal,
		TrackingNumber:    tracking,
		Notes:             draft.Notes,
		EstimatedDelivery: &estimated,
		StatusHistory: []models.StatusChange{
			{Status: models.StatusPending, Timestamp: now, Note: notePlaced},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateOrder(ctx, &order); err != nil {
		return models.Order{}, fmt.Errorf("create order %s: %w", orderNumber, err)
	}

	s.logger.Info("order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("owner", order.OwnerID),
		zap.Int64("total", order.Total),
	)
	return order, nil
}

// Transition moves an order to next, recording note (or a default note) in
// its history. The stored order is untouched when the move is not allowed.
func (s *Service) Transition(ctx context.Context, id primitive.ObjectID, next models.OrderStatus, note string) (models.Order, error) {
	if !next.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !order.Status.CanTransitionTo(next) {
		return models.Order{}, &IllegalTransitionError{From: order.Status, To: next}
	}

	if note == "" {
		note = fmt.Sprintf("Order status updated to %s", next)
	}
	change := models.StatusChange{Status: next, Timestamp: s.now(), Note: note}

	updated, err := s.store.UpdateOrderStatus(ctx, id, order.Status, change)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrStatusChanged) {
			return models.Order{}, err
		}
		return models.Order{}, fmt.Errorf("update order %s status: %w", order.OrderNumber, err)
	}

	s.logger.Info("order status changed",
		zap.String("orderNumber", updated.OrderNumber),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)),
	)
	return updated, nil
}

// Cancel cancels a pending or confirmed order on the customer's behalf.
func (s *Service) Cancel(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.Transition(ctx, id, models.StatusCancelled, noteCancelled)
}

// CancelForOwner cancels an order only if it belongs to owner.
func (s *Service) CancelForOwner(ctx context.Context, owner string, id primitive.ObjectID) (models.Order, error) {
	if _, err := s.GetForOwner(ctx, owner, id); err != nil {
		return models.Order{}, err
	}
	return s.Cancel(ctx, id)
}

func (s *Service) UpdateDetails(ctx context.Context, id primitive.ObjectID, details Details) (models.Order, error) {
	if details.TrackingNumber == nil && details.Notes == nil {
		return s.Get(ctx, id)
	}
	updated, err := s.store.UpdateOrderDetails(ctx, id, details, s.now())
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return models.Order{}, err
		}
		return models.Order{}, fmt.Errorf("update order details: %w", err)
	}
	return updated, nil
}

// Delete removes an order regardless of its status.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("delete order: %w", err)
	}
	s.logger.Warn("order deleted", zap.String("orderId", id.Hex()))
	return nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// GetForOwner hides orders of other owners behind ErrOrderNotFound.
func (s *Service) GetForOwner(ctx context.Context, owner string, id primitive.ObjectID) (models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.OwnerID != owner {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// List returns orders matching filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, filter.Status)
	}
	list, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if filter.Limit > 0 && int64(len(list)) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (s *Service) ByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.List(ctx, Filter{Status: status})
}

// Recent returns the newest orders; limit <= 0 means DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int64) ([]models.Order, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.List(ctx, Filter{Limit: limit})
}

func (s *Service) ForOwner(ctx context.Context, owner string, status models.OrderStatus) ([]models.Order, error) {
	return s.List(ctx, Filter{OwnerID: owner, Status: status})
}

func snapshotLine(line models.CartLine) models.CartLine {
	if line.Variants != nil {
		variants := make(map[string]string, len(line.Variants))
		for k, v := range line.Variants {
			variants[k] = v
		}
		line.Variants = variants
	}
	if line.Options != nil {
		options := make(map[string]string, len(line.Options))
		for k, v := range line.Options {
			options[k] = v
		}
		line.Options = options
	}
	return line
}
