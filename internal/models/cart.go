package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/money"
)

// CartLine is one product/variant combination in a cart. Subtotal is kept
// equal to UnitPrice * Quantity by every cart mutation.
type CartLine struct {
	ID        string             `bson:"lineId" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Supplier  string             `bson:"supplier,omitempty" json:"supplier,omitempty"`
	UnitPrice int64              `bson:"unitPrice" json:"unitPrice"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Variants  map[string]string  `bson:"variants,omitempty" json:"variants,omitempty"`
	Options   map[string]string  `bson:"options,omitempty" json:"options,omitempty"`
	Subtotal  int64              `bson:"subtotal" json:"subtotal"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// CartSummary is derived from the lines and active discount; it is never stored.
type CartSummary struct {
	ItemCount      int   `json:"itemCount"`
	Subtotal       int64 `json:"subtotal"`
	ShippingCost   int64 `json:"shippingCost"`
	Tax            int64 `json:"tax"`
	DiscountAmount int64 `json:"discountAmount"`
	Total          int64 `json:"total"`
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type DiscountCode struct {
	Code          string       `bson:"code" json:"code"`
	Type          DiscountType `bson:"type" json:"type"`
	Value         int64        `bson:"value" json:"value"`
	MinimumAmount int64        `bson:"minimumAmount,omitempty" json:"minimumAmount,omitempty"`
	IsActive      bool         `bson:"isActive" json:"-"`
}

// AmountFor returns the discount this code grants on subtotal, never more
// than the subtotal itself.
func (d DiscountCode) AmountFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	var amount int64
	switch d.Type {
	case DiscountPercentage:
		amount = money.Percent(subtotal, decimal.NewFromInt(d.Value))
	case DiscountFixed:
		amount = d.Value
	}
	if amount > subtotal {
		return subtotal
	}
	if amount < 0 {
		return 0
	}
	return amount
}
