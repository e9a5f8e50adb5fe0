package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrilink/internal/models"
	"agrilink/internal/orders"
)

type OrderStore struct {
	coll *mongo.Collection
}

func (s *OrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order number %s already exists: %w", order.OrderNumber, err)
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (s *OrderStore) GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, orders.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func orderFilter(f orders.Filter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	return filter
}

func (s *OrderStore) ListOrders(ctx context.Context, f orders.Filter) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		findOptions.SetLimit(f.Limit)
	}

	cursor, err := s.coll.Find(ctx, orderFilter(f), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := make([]models.Order, 0)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *OrderStore) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set":  bson.M{"status": change.Status, "updatedAt": change.Timestamp},
		"$push": bson.M{"statusHistory": change},
	}
	var updated models.Order
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, s.missOrConflict(ctx, id)
	}
	if err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

func (s *OrderStore) missOrConflict(ctx context.Context, id primitive.ObjectID) error {
	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return orders.ErrOrderNotFound
	}
	return orders.ErrStatusChanged
}

func (s *OrderStore) UpdateOrderDetails(ctx context.Context, id primitive.ObjectID, details orders.Details, updatedAt time.Time) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": updatedAt}
	if details.TrackingNumber != nil {
		set["trackingNumber"] = *details.TrackingNumber
	}
	if details.Notes != nil {
		set["notes"] = *details.Notes
	}

	var updated models.Order
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, orders.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

func (s *OrderStore) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return orders.ErrOrderNotFound
	}
	return nil
}
