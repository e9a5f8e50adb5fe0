package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	cartLinesCollection     = "cart_lines"
	ordersCollection        = "orders"
	productsCollection      = "products"
	categoriesCollection    = "categories"
	discountCodesCollection = "discount_codes"
	usersCollection         = "users"
	adminsCollection        = "admins"
)

// EnsureIndexes creates every index the gateway relies on. Failures are
// returned after all collections were attempted.
func EnsureIndexes(db *mongo.Database) error {
	var firstErr error
	for _, ensure := range []func(*mongo.Database) error{
		EnsureCartIndexes,
		EnsureOrderIndexes,
		EnsureProductIndexes,
		EnsureDiscountIndexes,
		EnsureUserIndexes,
		EnsureAdminIndexes,
	} {
		if err := ensure(db); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func createIndexes(collection *mongo.Collection, indexes ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	names, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		zap.L().Warn("index creation failed", zap.String("collection", collection.Name()), zap.Error(err))
		return err
	}
	zap.L().Info("indexes ensured", zap.String("collection", collection.Name()), zap.Strings("indexes", names))
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	return createIndexes(db.Collection(cartLinesCollection), mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "lineId", Value: 1}},
		Options: options.Index().SetName("owner_line_unique").SetUnique(true),
	})
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return createIndexes(db.Collection(ordersCollection),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetName("orderNumber_unique").SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("owner_createdAt"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_createdAt"),
		},
	)
}

func EnsureProductIndexes(db *mongo.Database) error {
	return createIndexes(db.Collection(productsCollection),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "categoryId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("category_createdAt"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "isActive", Value: 1}},
			Options: options.Index().SetName("isActive_index"),
		},
	)
}

func EnsureDiscountIndexes(db *mongo.Database) error {
	return createIndexes(db.Collection(discountCodesCollection), mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName("code_unique").SetUnique(true),
	})
}

func EnsureUserIndexes(db *mongo.Database) error {
	return createIndexes(db.Collection(usersCollection), mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
	})
}

func EnsureAdminIndexes(db *mongo.Database) error {
	return createIndexes(db.Collection(adminsCollection), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
}
