package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/artboard/internal/config"
	"github.com/matzehuels/artboard/pkg/cache"
	"github.com/matzehuels/artboard/pkg/persist"
	"github.com/matzehuels/artboard/pkg/presence"
)

// openCanvasStore opens the canvas store named by the server section.
func openCanvasStore(ctx context.Context, cfg config.Config) (persist.Store, error) {
	switch cfg.Server.Store {
	case config.BackendMemory:
		return persist.NewMemoryStore(nil), nil
	case config.BackendMongo:
		client, err := persist.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		return persist.NewMongoStore(client, cfg.Mongo.Database, cfg.Mongo.Collection), nil
	default:
		return persist.NewFileStore(cfg.Server.DataDir)
	}
}

// openPresenceStore opens the presence store named by the presence section.
func openPresenceStore(ctx context.Context, cfg config.Config) (presence.Store, error) {
	if cfg.Presence.Backend != config.BackendRedis {
		return presence.NewMemoryStore(nil), nil
	}
	client, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return presence.NewRedisStore(client, cfg.Redis.Prefix, 0), nil
}

// openCache returns the asset and export cache with its key scheme.
// noCache, from a flag or the config, selects a cache that stores nothing.
func openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if cfg.Assets.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Assets.Scope+":")
	}
	if noCache || cfg.Assets.NoCache {
		return cache.NewNullCache(), keyer, nil
	}
	if cfg.Assets.Cache == config.BackendRedis {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		prefix := ""
		if cfg.Redis.Prefix != "" {
			prefix = cfg.Redis.Prefix + "cache:"
		}
		return cache.NewRedisCache(client, prefix), keyer, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), keyer, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, keyer, nil
}

func connectRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
