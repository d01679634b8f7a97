package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"printshop/m/internal/auth"
	"printshop/m/internal/database"
	"printshop/m/internal/inventory"
	"printshop/m/internal/migrations"
	"printshop/m/internal/seed"
	"printshop/m/internal/storefront"
	"printshop/m/internal/users"
)

// app holds the wired services shared by every subcommand.
type app struct {
	db         *sqlx.DB
	redis      *redis.Client
	tokens     *auth.TokenManager
	inventory  *inventory.Service
	users      *users.Service
	storefront *storefront.Service
	catalog    *storefront.Store
}

func openApp(ctx context.Context) (*app, error) {
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, err
	}

	a := &app{db: db, tokens: auth.NewTokenManager(cfg.Secret, 0)}

	opts := []inventory.Option{
		inventory.WithLowStockThreshold(cfg.LowStockThreshold),
		inventory.WithLogger(logger.Named("inventory")),
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, stats cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			client.Close()
		} else {
			a.redis = client
			opts = append(opts, inventory.WithCache(inventory.NewRedisStatsCache(client, inventory.WithTTL(cfg.StatsCacheTTL))))
			logger.Info("stats cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.StatsCacheTTL))
		}
	}

	a.inventory = inventory.NewService(inventory.NewStore(db), opts...)
	a.users = users.NewService(users.NewStore(db), a.tokens)
	a.catalog = storefront.NewStore(db)
	a.storefront = storefront.NewService(a.catalog, storefront.Shipping{
		Flat:     cfg.ShippingFlat,
		FreeOver: cfg.FreeShippingOver,
	})
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := a.db.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
}

func (a *app) seed(ctx context.Context) error {
	n, err := seed.LoadInventory(ctx, a.inventory, inventorySeed, logger.Named("seed"))
	if err != nil {
		return fmt.Errorf("seed inventory: %w", err)
	}
	logger.Info("inventory seed complete", zap.Int("rows", n))

	n, err = seed.LoadCatalog(ctx, a.catalog, catalogSeed, logger.Named("seed"))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seed complete", zap.Int("products", n))
	return nil
}

// ensureAdmin provisions the configured admin account when credentials are set.
func (a *app) ensureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	admin, err := a.users.EnsureAdmin(ctx, email, password)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	logger.Info("admin account ready", zap.Int64("id", admin.ID), zap.String("email", admin.Email))
	return nil
}
