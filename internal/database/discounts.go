package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"agrilink/internal/cart"
	"agrilink/internal/models"
)

// DiscountCatalog looks codes up in discount_codes and falls back to the
// built-in promotional codes. Codes are stored upper-case.
type DiscountCatalog struct {
	coll     *mongo.Collection
	fallback cart.StaticCatalog
}

func NewDiscountCatalog(coll *mongo.Collection) *DiscountCatalog {
	return &DiscountCatalog{coll: coll, fallback: cart.NewStaticCatalog(cart.DefaultDiscountCodes()...)}
}

func (d *DiscountCatalog) Lookup(ctx context.Context, code string) (models.DiscountCode, error) {
	normalized := cart.NormalizeCode(code)
	if normalized == "" {
		return models.DiscountCode{}, cart.ErrInvalidCode
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var found models.DiscountCode
	err := d.coll.FindOne(ctx, bson.M{"code": normalized}).Decode(&found)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return d.fallback.Lookup(ctx, normalized)
	case err != nil:
		return models.DiscountCode{}, err
	case !found.IsActive:
		return models.DiscountCode{}, cart.ErrInvalidCode
	}
	return found, nil
}
