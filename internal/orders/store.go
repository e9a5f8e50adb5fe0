package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/models"
)

//go:generate go tool mockgen -source=store.go -destination=mocks/store.go -package=mocks

// Filter narrows ListOrders. Zero values match everything; Limit <= 0 means
// no limit. Results are ordered by creation time, newest first.
type Filter struct {
	Status  models.OrderStatus
	OwnerID string
	Limit   int64
}

// Details holds the administrative fields of an order. Nil pointers are left
// unchanged.
type Details struct {
	TrackingNumber *string
	Notes          *string
}

// Store is the order side of the remote data gateway. It persists what it is
// given; legality of status changes is decided by Service before the call.
type Store interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ListOrders(ctx context.Context, filter Filter) ([]models.Order, error)
	// UpdateOrderStatus applies change only while the stored status is still
	// from, appending change to the history. It returns ErrStatusChanged
	// otherwise.
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (models.Order, error)
	UpdateOrderDetails(ctx context.Context, id primitive.ObjectID, details Details, updatedAt time.Time) (models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
}
