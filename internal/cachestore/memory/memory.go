package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/metrics"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// Ensure GenerationStore implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*GenerationStore)(nil)

// entryLifeWindow bounds how long BigCache keeps an entry. Entries are meant
// to live exactly as long as their generation, so the window is set far
// beyond any activation cycle rather than tuned for freshness.
const entryLifeWindow = 365 * 24 * time.Hour

// GenerationStore keeps each cache generation in its own BigCache instance.
// Eviction is whole-generation only; entries are never expired by age.
type GenerationStore struct {
	mu          sync.Mutex
	generations map[string]*generation
	cfg         *config.MemoryCacheConfig
	logger      *zap.Logger
}

// NewGenerationStore creates a new in-memory generation store
func NewGenerationStore(cfg *config.MemoryCacheConfig, logger *zap.Logger) *GenerationStore {
	return &GenerationStore{
		generations: make(map[string]*generation),
		cfg:         cfg,
		logger:      logger,
	}
}

// Open returns the Store for the named generation, creating it if absent
func (gs *GenerationStore) Open(name string) (interfaces.Store, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gen, ok := gs.generations[name]; ok {
		return gen, nil
	}

	bcConfig := bigcache.DefaultConfig(entryLifeWindow)
	bcConfig.HardMaxCacheSize = gs.cfg.SizeMB
	bcConfig.Verbose = false
	bcConfig.MaxEntrySize = 1024 * 1024 // 1MB max entry size
	bcConfig.CleanWindow = 0            // generation eviction only, no sweeper

	cache, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation %q: %w", name, err)
	}

	gen := &generation{
		name:   name,
		cache:  cache,
		logger: gs.logger,
	}
	gs.generations[name] = gen

	gs.logger.Info("Opened cache generation",
		zap.String("generation", name),
		zap.Int("size_mb", gs.cfg.SizeMB))
	return gen, nil
}

// List enumerates all known generation names
func (gs *GenerationStore) List() ([]string, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	names := make([]string, 0, len(gs.generations))
	for name := range gs.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete evicts a whole generation and everything it holds
func (gs *GenerationStore) Delete(name string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gen, ok := gs.generations[name]
	if !ok {
		return nil
	}
	delete(gs.generations, name)

	if err := gen.cache.Close(); err != nil {
		return fmt.Errorf("failed to close generation %q: %w", name, err)
	}
	return nil
}

// Close releases all generations
func (gs *GenerationStore) Close() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	var firstErr error
	for name, gen := range gs.generations {
		if err := gen.cache.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close generation %q: %w", name, err)
		}
		delete(gs.generations, name)
	}
	return firstErr
}

// generation is one named Store backed by a BigCache instance
type generation struct {
	name   string
	cache  *bigcache.BigCache
	logger *zap.Logger
}

var _ interfaces.Store = (*generation)(nil)

// Get retrieves a cached exchange by identity
func (g *generation) Get(key string) (*models.CachedExchange, bool) {
	data, err := g.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var exchange models.CachedExchange
	if err := json.Unmarshal(data, &exchange); err != nil {
		g.logger.Warn("Failed to unmarshal cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("memory", "decode")
		g.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	return &exchange, true
}

// Put stores a cached exchange, overwriting any prior exchange with the
// same identity. Last write wins.
func (g *generation) Put(key string, exchange *models.CachedExchange) {
	data, err := json.Marshal(exchange)
	if err != nil {
		g.logger.Error("Failed to marshal cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("memory", "encode")
		return
	}

	if err := g.cache.Set(key, data); err != nil {
		g.logger.Error("Failed to store cached exchange",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("memory", "put")
	}
}

// Delete removes an exchange by identity
func (g *generation) Delete(key string) {
	if err := g.cache.Delete(key); err != nil {
		return
	}
}
