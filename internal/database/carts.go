package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrilink/internal/models"
)

type cartLineDocument struct {
	OwnerID         string `bson:"ownerId"`
	models.CartLine `bson:",inline"`
}

// CartStore keeps one document per (owner, line) in cart_lines.
type CartStore struct {
	coll *mongo.Collection
}

func (s *CartStore) LoadLines(ctx context.Context, owner string) ([]models.CartLine, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"ownerId": owner},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cart lines: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []cartLineDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cart lines: %w", err)
	}
	lines := make([]models.CartLine, len(docs))
	for i, doc := range docs {
		lines[i] = doc.CartLine
	}
	return lines, nil
}

func (s *CartStore) SaveLine(ctx context.Context, owner string, line models.CartLine) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"ownerId": owner, "lineId": line.ID},
		cartLineDocument{OwnerID: owner, CartLine: line},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *CartStore) DeleteLine(ctx context.Context, owner, lineID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"ownerId": owner, "lineId": lineID})
	return err
}

func (s *CartStore) ClearLines(ctx context.Context, owner string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.coll.DeleteMany(ctx, bson.M{"ownerId": owner})
	return err
}
