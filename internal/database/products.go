package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrilink/internal/catalog"
	"agrilink/internal/models"
)

type ProductStore struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func productFilter(q catalog.Query) bson.M {
	filter := bson.M{"isActive": bson.M{"$ne": false}}
	if category := strings.TrimSpace(q.CategoryID); category != "" {
		filter["categoryId"] = category
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	return filter
}

func (s *ProductStore) GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var raw bson.M
	err := s.products.FindOne(ctx, bson.M{"_id": id, "isActive": bson.M{"$ne": false}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, catalog.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return normalizeProductDocument(raw)
}

func (s *ProductStore) ListProducts(ctx context.Context, q catalog.Query) ([]models.Product, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := productFilter(q)
	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)

	cursor, err := s.products.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.categories.Find(ctx,
		bson.M{"isActive": bson.M{"$ne": false}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// normalizeProductDocument tolerates documents written by older tools:
// numeric fields stored as doubles or strings and a missing isActive flag.
func normalizeProductDocument(raw bson.M) (models.Product, error) {
	for _, key := range []string{"price", "originalPrice"} {
		if val, ok := raw[key]; ok {
			raw[key] = toInt64(val)
		}
	}
	if val, ok := raw["stockQuantity"]; ok {
		raw["stockQuantity"] = int(toInt64(val))
	} else {
		raw["stockQuantity"] = 0
	}
	if _, ok := raw["isActive"].(bool); !ok {
		raw["isActive"] = true
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func toInt64(val interface{}) int64 {
	switch typed := val.(type) {
	case int32:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(math.Round(typed))
	case string:
		var n int64
		if _, err := fmt.Sscan(typed, &n); err == nil {
			return n
		}
	}
	return 0
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
