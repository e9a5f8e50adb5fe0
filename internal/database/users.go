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

	"agrilink/internal/auth"
	"agrilink/internal/models"
)

// AddressStore keeps address books on the users collection. A user document
// is created on first save for accounts managed by the external identity
// provider.
type AddressStore struct {
	coll *mongo.Collection
}

func (s *AddressStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"addresses": 1})).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.Address{}, nil
	}
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *AddressStore) SaveAddresses(ctx context.Context, userID string, addresses []models.Address) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	_, err = s.coll.UpdateByID(ctx, id, bson.M{
		"$set":         bson.M{"addresses": addresses, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}, options.Update().SetUpsert(true))
	return err
}

type AdminStore struct {
	coll *mongo.Collection
}

func (s *AdminStore) FindAdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{"email": auth.NormalizeEmail(email)}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Admin{}, auth.ErrAdminNotFound
	}
	if err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

// EnsureAdmin creates the admin account if no admin with that email exists.
func (s *AdminStore) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"email": auth.NormalizeEmail(email)},
		bson.M{"$setOnInsert": bson.M{"email": auth.NormalizeEmail(email), "passwordHash": hash}},
		options.Update().SetUpsert(true))
	return err
}
