package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/metrics"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// Key layout: gen:<generation>:<identity>. The marker key (empty identity
// suffix "!") keeps freshly opened generations enumerable before their first
// exchange is written.
const (
	keyPrefix = "gen:"
	markerKey = "!"
	scanBatch = 200
)

// Ensure GenerationStore implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*GenerationStore)(nil)

// GenerationStore keeps cache generations in Redis, one key prefix per
// generation, so a generation survives process restarts.
type GenerationStore struct {
	client interfaces.RedisClient
	cfg    *config.RedisConfig
	logger *zap.Logger
}

// NewGenerationStore creates a Redis-backed generation store with the
// provided client
func NewGenerationStore(cfg *config.RedisConfig, client interfaces.RedisClient, logger *zap.Logger) *GenerationStore {
	return &GenerationStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Open returns the Store for the named generation, creating its marker key
// if absent
func (gs *GenerationStore) Open(name string) (interfaces.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gs.cfg.SendTimeout)
	defer cancel()

	if err := gs.client.Set(ctx, generationKey(name, markerKey), "1", 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to open generation %q: %w", name, err)
	}

	return &generation{
		name:   name,
		client: gs.client,
		cfg:    gs.cfg,
		logger: gs.logger,
	}, nil
}

// List enumerates all known generation names
func (gs *GenerationStore) List() ([]string, error) {
	seen := make(map[string]bool)

	var cursor uint64
	for {
		ctx, cancel := context.WithTimeout(context.Background(), gs.cfg.ReadTimeout)
		keys, next, err := gs.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to scan generations: %w", err)
		}

		for _, key := range keys {
			rest := strings.TrimPrefix(key, keyPrefix)
			if idx := strings.Index(rest, ":"); idx > 0 {
				seen[rest[:idx]] = true
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete evicts a whole generation and every exchange it holds
func (gs *GenerationStore) Delete(name string) error {
	var cursor uint64
	for {
		ctx, cancel := context.WithTimeout(context.Background(), gs.cfg.ReadTimeout)
		keys, next, err := gs.client.Scan(ctx, cursor, generationKey(name, "*"), scanBatch).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to scan generation %q: %w", name, err)
		}

		if len(keys) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), gs.cfg.SendTimeout)
			err := gs.client.Del(ctx, keys...).Err()
			cancel()
			if err != nil {
				return fmt.Errorf("failed to delete generation %q: %w", name, err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// Close closes the underlying client
func (gs *GenerationStore) Close() error {
	return gs.client.Close()
}

func generationKey(name, identity string) string {
	return keyPrefix + name + ":" + identity
}

// generation is one named Store backed by a Redis key prefix
type generation struct {
	name   string
	client interfaces.RedisClient
	cfg    *config.RedisConfig
	logger *zap.Logger
}

var _ interfaces.Store = (*generation)(nil)

// Get retrieves a cached exchange by identity
func (g *generation) Get(key string) (*models.CachedExchange, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.ReadTimeout)
	defer cancel()

	data, err := g.client.Get(ctx, generationKey(g.name, key)).Result()
	if err != nil {
		if err != redis.Nil {
			g.logger.Error("Redis cache get error", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError("redis", "get")
		}
		return nil, false
	}

	var exchange models.CachedExchange
	if err := json.Unmarshal([]byte(data), &exchange); err != nil {
		g.logger.Error("Failed to unmarshal cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("redis", "decode")
		g.client.Del(context.Background(), generationKey(g.name, key))
		return nil, false
	}

	return &exchange, true
}

// Put stores a cached exchange. No per-entry expiration: eviction is
// whole-generation only.
func (g *generation) Put(key string, exchange *models.CachedExchange) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.SendTimeout)
	defer cancel()

	data, err := json.Marshal(exchange)
	if err != nil {
		g.logger.Error("Failed to marshal cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("redis", "encode")
		return
	}

	if err := g.client.Set(ctx, generationKey(g.name, key), data, 0).Err(); err != nil {
		g.logger.Error("Failed to store cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("redis", "put")
	}
}

// Delete removes an exchange by identity
func (g *generation) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.SendTimeout)
	defer cancel()

	if err := g.client.Del(ctx, generationKey(g.name, key)).Err(); err != nil {
		g.logger.Error("Failed to delete cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
	}
}
