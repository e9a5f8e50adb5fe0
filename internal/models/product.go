package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is a selectable product option that shifts the unit price,
// e.g. size=10kg with a +50000 adjustment.
type Variant struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	Value           string `bson:"value" json:"value"`
	PriceAdjustment int64  `bson:"priceAdjustment" json:"priceAdjustment"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Price         int64              `bson:"price" json:"price"`
	OriginalPrice int64              `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	IsOnSale      bool               `bson:"-" json:"isOnSale"`
	SavingsPct    int64              `bson:"-" json:"savingsPercent,omitempty"`
	Supplier      string             `bson:"supplier" json:"supplier"`
	CategoryID    string             `bson:"categoryId" json:"categoryId"`
	Variants      []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	InStock       bool               `bson:"-" json:"inStock"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// UnitPrice is the base price plus the adjustment of every variant whose
// name/value pair appears in selected.
func (p Product) UnitPrice(selected map[string]string) int64 {
	price := p.Price
	for _, v := range p.Variants {
		if chosen, ok := selected[v.Name]; ok && chosen == v.Value {
			price += v.PriceAdjustment
		}
	}
	return price
}
