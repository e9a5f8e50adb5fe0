package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const queryTimeout = 5 * time.Second

func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Ping checks that the primary is reachable.
func Ping(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

// Stores bundles every MongoDB-backed gateway.
type Stores struct {
	Carts     *CartStore
	Orders    *OrderStore
	Products  *ProductStore
	Discounts *DiscountCatalog
	Addresses *AddressStore
	Admins    *AdminStore
}

func NewStores(db *mongo.Database) Stores {
	return Stores{
		Carts:     &CartStore{coll: db.Collection(cartLinesCollection)},
		Orders:    &OrderStore{coll: db.Collection(ordersCollection)},
		Products:  &ProductStore{products: db.Collection(productsCollection), categories: db.Collection(categoriesCollection)},
		Discounts: NewDiscountCatalog(db.Collection(discountCodesCollection)),
		Addresses: &AddressStore{coll: db.Collection(usersCollection)},
		Admins:    &AdminStore{coll: db.Collection(adminsCollection)},
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
