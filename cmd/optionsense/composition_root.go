package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/cachestore"
	"github.com/emailid501-ux/optionsense-app/internal/cachestore/memory"
	"github.com/emailid501-ux/optionsense-app/internal/cachestore/noop"
	"github.com/emailid501-ux/optionsense-app/internal/cachestore/redisstore"
	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/httpserver"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/models"
	"github.com/emailid501-ux/optionsense-app/internal/notify"
	"github.com/emailid501-ux/optionsense-app/internal/policy"
	"github.com/emailid501-ux/optionsense-app/internal/proxy"
	"github.com/emailid501-ux/optionsense-app/internal/syncctl"
	"github.com/emailid501-ux/optionsense-app/internal/upstream"
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
// This pattern helps with:
// - Centralized dependency management
// - Easier testing (can inject mocks)
// - Clear separation of concerns
// - Proper resource cleanup
type CompositionRoot struct {
	// Configuration
	Config      *config.Config
	Logger      *zap.Logger
	PolicyTable *policy.Table

	// Cache components
	Generations interfaces.GenerationStore
	KeyBuilder  interfaces.KeyBuilder
	Proxy       *proxy.Proxy

	// Sync components
	Client     *upstream.Client
	Session    *syncctl.Session
	Controller *syncctl.Controller
	Dispatcher *notify.Dispatcher

	// Servers
	HTTPServer    *httpserver.Server
	MetricsServer *httpserver.MetricsServer
}

// NewCompositionRoot creates and initializes all application dependencies.
// It follows the dependency injection pattern where all services are created
// and wired together in the correct order.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Route policies (defines per-route caching strategy)
// 4. Generation store (memory, Redis, or disabled)
// 5. Cache proxy (installed and activated by main)
// 6. Sync controller and its upstream client
// 7. HTTP servers (use all above components)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	// Initialize logger first
	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Load configuration
	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load route policies
	if err := root.loadRoutePolicies(); err != nil {
		return nil, fmt.Errorf("failed to load route policies: %w", err)
	}

	// Initialize cache components
	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	// Initialize sync components
	if err := root.initSyncComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize sync components: %w", err)
	}

	// Initialize HTTP servers
	root.initHTTPServers()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("OPTIONSENSE_CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// loadRoutePolicies loads the route policy table
func (r *CompositionRoot) loadRoutePolicies() error {
	rulesPath := os.Getenv("OPTIONSENSE_ROUTE_POLICIES_FILE")
	if rulesPath == "" {
		rulesPath = r.Config.Proxy.RoutePoliciesPath
	}

	table, err := policy.LoadRoutePolicies(rulesPath, r.Logger)
	if err != nil {
		r.Logger.Warn("Failed to load route policies, using defaults",
			zap.String("path", rulesPath),
			zap.Error(err))
		table = policy.DefaultTable(r.Logger)
	}

	r.PolicyTable = table
	return nil
}

// initCacheComponents initializes the generation store, key builder and proxy
func (r *CompositionRoot) initCacheComponents() error {
	if err := r.initGenerationStore(); err != nil {
		return fmt.Errorf("failed to initialize generation store: %w", err)
	}

	r.KeyBuilder = cachestore.NewKeyBuilder()

	baseURL, err := upstream.ParseBaseURL(r.Config.Upstream.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid upstream base URL: %w", err)
	}

	r.Proxy = proxy.New(
		nil,
		r.Generations,
		r.KeyBuilder,
		r.PolicyTable,
		r.Config.Proxy.GenerationName(),
		baseURL,
		r.Config.Proxy.PrecacheManifest,
		r.Logger,
	)

	return nil
}

// initGenerationStore picks the cache backend. Redis is preferred when
// enabled and reachable so cached exchanges survive restarts; the in-memory
// store is the fallback, and a no-op store keeps the proxy functional as a
// plain pass-through when both are disabled.
func (r *CompositionRoot) initGenerationStore() error {
	if r.Config.Redis.Enabled {
		redisURL := GetRedisURL(r.Config.Redis.URL, r.Logger)
		r.Config.Redis.URL = redisURL

		client, err := redisstore.NewClient(&r.Config.Redis, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to Redis, falling back to in-memory store",
				zap.String("redis_url", redisURL),
				zap.Error(err))
		} else {
			r.Generations = redisstore.NewGenerationStore(&r.Config.Redis, client, r.Logger)
			r.Logger.Info("Redis generation store initialized", zap.String("redis_url", redisURL))
			return nil
		}
	}

	if r.Config.Memory.Enabled {
		r.Generations = memory.NewGenerationStore(&r.Config.Memory, r.Logger)
		r.Logger.Info("In-memory generation store initialized", zap.Int("size_mb", r.Config.Memory.SizeMB))
		return nil
	}

	r.Generations = noop.NewNoOpGenerationStore()
	r.Logger.Info("Caching disabled, proxy runs pass-through")
	return nil
}

// initSyncComponents initializes the upstream client, session and controller
func (r *CompositionRoot) initSyncComponents() error {
	client, err := upstream.NewClient(
		r.Config.Upstream.BaseURL,
		r.Proxy.Client(r.Config.Sync.BulkTimeout),
		r.Logger,
	)
	if err != nil {
		return err
	}
	r.Client = client

	r.Session = syncctl.NewSession(models.SymbolNifty, models.TabDashboard, "all")

	notifier := notify.NewLogNotifier(r.Logger)
	opener := notify.NewLogOpener(r.Logger)
	r.Dispatcher = notify.NewDispatcher(notifier, opener, r.Logger)

	picker := syncctl.NewBestPicker(notifier, r.Logger)

	r.Controller = syncctl.NewController(
		r.Client,
		r.Session,
		picker,
		&r.Config.Sync,
		r.Logger,
	)

	return nil
}

// initHTTPServers initializes the dashboard and metrics servers
func (r *CompositionRoot) initHTTPServers() {
	r.HTTPServer = httpserver.NewServer(
		r.Controller,
		r.Session,
		r.Dispatcher,
		r.Logger,
	)
	r.MetricsServer = httpserver.NewMetricsServer(r.Logger)
}

// InstallCache opens the configured cache generation, precaches the static
// manifest and activates the generation, pruning any older ones.
func (r *CompositionRoot) InstallCache(ctx context.Context) error {
	if err := r.Proxy.Install(ctx); err != nil {
		return fmt.Errorf("cache install failed: %w", err)
	}
	if err := r.Proxy.Activate(); err != nil {
		return fmt.Errorf("cache activate failed: %w", err)
	}
	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	// Flush outstanding cache writes before closing the store
	if r.Proxy != nil {
		r.Proxy.WaitWrites()
	}

	// Close generation store
	if r.Generations != nil {
		if err := r.Generations.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close generation store: %w", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("cleanup errors: %v", errors)
	}

	return nil
}
