package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrilink/internal/addresses"
	"agrilink/internal/auth"
	"agrilink/internal/cache"
	"agrilink/internal/cart"
	"agrilink/internal/catalog"
	"agrilink/internal/config"
	"agrilink/internal/database"
	"agrilink/internal/handlers"
	"agrilink/internal/logging"
	"agrilink/internal/memstore"
	"agrilink/internal/orders"
	"agrilink/internal/session"
)

// gateways is the remote data gateway the services run against, either
// MongoDB or the in-memory store.
type gateways struct {
	carts     cart.Store
	orders    orders.Store
	products  catalog.ProductStore
	discounts cart.DiscountCatalog
	addresses addresses.Store
	admins    auth.AdminStore
	ping      func(context.Context) error
	close     func()
}

func openMongo(logger *zap.Logger) (gateways, error) {
	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		return gateways{}, err
	}
	db := client.Database(config.AppEnv.DBName)
	logger.Info("MongoDB connected", zap.String("database", db.Name()))

	if err := database.EnsureIndexes(db); err != nil {
		logger.Warn("index warning", zap.Error(err))
	}

	stores := database.NewStores(db)
	if config.AppEnv.AdminEmail != "" && config.AppEnv.AdminPassword != "" {
		if err := stores.Admins.EnsureAdmin(context.Background(), config.AppEnv.AdminEmail, config.AppEnv.AdminPassword); err != nil {
			logger.Warn("admin seed failed", zap.Error(err))
		}
	}

	return gateways{
		carts:     stores.Carts,
		orders:    stores.Orders,
		products:  stores.Products,
		discounts: stores.Discounts,
		addresses: stores.Addresses,
		admins:    stores.Admins,
		ping:      func(ctx context.Context) error { return database.Ping(ctx, db) },
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}, nil
}

func openMemory(logger *zap.Logger) (gateways, error) {
	store, err := memstore.NewDemo()
	if err != nil {
		return gateways{}, err
	}
	logger.Warn("MONGO_URI not set, using the in-memory store with the demo catalog")

	if config.AppEnv.AdminEmail != "" && config.AppEnv.AdminPassword != "" {
		if err := store.EnsureAdmin(context.Background(), config.AppEnv.AdminEmail, config.AppEnv.AdminPassword); err != nil {
			return gateways{}, err
		}
	}

	return gateways{
		carts:     store,
		orders:    store,
		products:  store,
		discounts: cart.NewStaticCatalog(cart.DefaultDiscountCodes()...),
		addresses: store,
		admins:    store,
		ping:      func(context.Context) error { return nil },
		close:     func() {},
	}, nil
}

func openProductCache(logger *zap.Logger) (cache.Cache, func()) {
	if config.AppEnv.RedisAddr == "" {
		return nil, func() {}
	}
	redisCache := cache.NewRedisCache(config.AppEnv.RedisAddr, "agrilink")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, product cache disabled", zap.Error(err))
		_ = redisCache.Close()
		return nil, func() {}
	}
	logger.Info("redis product cache enabled", zap.String("addr", config.AppEnv.RedisAddr))
	return redisCache, func() { _ = redisCache.Close() }
}

func main() {
	config.Load()

	logger, err := logging.New(config.AppEnv.Environment, config.AppEnv.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	open := openMemory
	if config.AppEnv.UsesMongo() {
		open = openMongo
	}
	gw, err := open(logger)
	if err != nil {
		logger.Fatal("gateway setup failed", zap.Error(err))
	}
	defer gw.close()

	productCache, closeCache := openProductCache(logger)
	defer closeCache()

	pricing := cart.Pricing{
		TaxRatePercent:        config.AppEnv.TaxRatePercent,
		FreeShippingThreshold: config.AppEnv.FreeShippingThreshold,
		FlatShippingFee:       config.AppEnv.FlatShippingFee,
	}
	orderService := orders.NewService(gw.orders, orders.NewNumberGenerator(nil), logger.Named("orders"))

	sessions, err := session.NewRegistry(config.AppEnv.SessionCacheSize, session.Dependencies{
		Carts:     gw.carts,
		Orders:    orderService,
		Discounts: gw.discounts,
		Pricing:   pricing,
		Logger:    logger.Named("session"),
	})
	if err != nil {
		logger.Fatal("session registry", zap.Error(err))
	}

	if config.AppEnv.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	handlers.RegisterRoutes(r, handlers.Services{
		Catalog:   catalog.NewService(gw.products, productCache, config.AppEnv.ProductCacheTTL, logger.Named("catalog")),
		Sessions:  sessions,
		Orders:    orderService,
		Addresses: addresses.NewService(gw.addresses),
		Auth:      auth.NewAuthenticator(gw.admins, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL),
		JWTSecret: config.AppEnv.JWTSecret,
		Ping:      gw.ping,
	})

	logger.Info("listening", zap.String("port", config.AppEnv.Port))
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
