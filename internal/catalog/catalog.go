// Package catalog serves the read-only product catalog, with products cached
// by id when a cache is configured.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"agrilink/internal/cache"
	"agrilink/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query selects active products. Search matches product names
// case-insensitively.
type Query struct {
	CategoryID string
	Search     string
	Page       int64
	Limit      int64
}

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

func (q Query) Skip() int64 {
	q = q.normalized()
	return (q.Page - 1) * q.Limit
}

type ProductStore interface {
	// GetProduct returns ErrProductNotFound for unknown or inactive products.
	GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	ListProducts(ctx context.Context, q Query) ([]models.Product, int64, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type Page struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Limit int64            `json:"limit"`
}

type Service struct {
	store  ProductStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService builds the catalog; c may be nil to disable caching.
func NewService(store ProductStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: c, ttl: ttl, logger: logger}
}

func (s *Service) Product(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	if p, ok := s.cached(ctx, id); ok {
		return decorate(p), nil
	}

	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	s.remember(ctx, p)
	return decorate(p), nil
}

func (s *Service) Products(ctx context.Context, q Query) (Page, error) {
	q = q.normalized()
	items, total, err := s.store.ListProducts(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("list products: %w", err)
	}
	for i := range items {
		items[i] = decorate(items[i])
	}
	if items == nil {
		items = []models.Product{}
	}
	return Page{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *Service) cached(ctx context.Context, id primitive.ObjectID) (models.Product, bool) {
	if s.cache == nil {
		return models.Product{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.GenerateKey("product", id.Hex()))
	if err != nil {
		s.logger.Warn("product cache read failed", zap.String("productId", id.Hex()), zap.Error(err))
		return models.Product{}, false
	}
	if raw == "" {
		return models.Product{}, false
	}
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("discarding corrupt cached product", zap.String("productId", id.Hex()), zap.Error(err))
		return models.Product{}, false
	}
	return p, true
}

func (s *Service) remember(ctx context.Context, p models.Product) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.GenerateKey("product", p.ID.Hex()), raw, s.ttl); err != nil {
		s.logger.Warn("product cache write failed", zap.String("productId", p.ID.Hex()), zap.Error(err))
	}
}

