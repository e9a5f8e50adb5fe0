package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
}

const PriorityNormal = "normal"

// Order defines the persisted order document. Items and the money fields are
// snapshots taken when the order was placed.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber       string             `bson:"orderNumber" json:"orderNumber"`
	OwnerID           string             `bson:"ownerId" json:"ownerId"`
	Status            OrderStatus        `bson:"status" json:"status"`
	Items             []CartLine         `bson:"items" json:"items"`
	Subtotal          int64              `bson:"subtotal" json:"subtotal"`
	Tax               int64              `bson:"tax" json:"tax"`
	ShippingCost      int64              `bson:"shippingCost" json:"shippingCost"`
	DiscountAmount    int64              `bson:"discountAmount" json:"discountAmount"`
	Total             int64              `bson:"total" json:"total"`
	ShippingAddress   ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod     PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	ShippingMethod    ShippingMethod     `bson:"shippingMethod" json:"shippingMethod"`
	DiscountCode      string             `bson:"discountCode,omitempty" json:"discountCode,omitempty"`
	CustomerName      string             `bson:"customerName" json:"customerName"`
	CustomerPhone     string             `bson:"customerPhone" json:"customerPhone"`
	Priority          string             `bson:"priority" json:"priority"`
	TrackingNumber    string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	EstimatedDelivery *time.Time         `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	StatusHistory     []StatusChange     `bson:"statusHistory" json:"statusHistory"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
