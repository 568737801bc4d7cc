package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Upstream UpstreamConfig    `yaml:"upstream"`
	Memory   MemoryCacheConfig `yaml:"memory_cache"`
	Redis    RedisConfig       `yaml:"redis"`
	Proxy    ProxyConfig       `yaml:"proxy"`
	Sync     SyncConfig        `yaml:"sync"`
}

// ServerConfig configures the local dashboard HTTP server
type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// UpstreamConfig configures the remote analytics API
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
}

// MemoryCacheConfig configures the in-memory generation store
type MemoryCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	SizeMB  int  `yaml:"size_mb"` // hard cap per generation, in MB
}

// RedisConfig configures the persistent generation store
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled"`
	URL            string        `yaml:"url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	PoolSize       int           `yaml:"pool_size"`
}

// ProxyConfig configures the cache proxy's generation lifecycle
type ProxyConfig struct {
	GenerationPrefix string   `yaml:"generation_prefix"`
	Version          int      `yaml:"version"`
	PrecacheManifest []string `yaml:"precache_manifest"`
	RoutePoliciesPath string  `yaml:"route_policies_path"`
}

// SyncConfig configures the sync controller's scheduling policies
type SyncConfig struct {
	RefreshInterval   time.Duration `yaml:"refresh_interval"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	MaxRetries        int           `yaml:"max_retries"`
	SnapshotTimeout   time.Duration `yaml:"snapshot_timeout"`
	LookupTimeout     time.Duration `yaml:"lookup_timeout"`
	BulkTimeout       time.Duration `yaml:"bulk_timeout"`
	DebounceInterval  time.Duration `yaml:"debounce_interval"`
	SubpollInterval   time.Duration `yaml:"subpoll_interval"`
	SubpollMaxSymbols int           `yaml:"subpoll_max_symbols"`
}

// GenerationName returns the name of the current cache generation.
func (p *ProxyConfig) GenerationName() string {
	return fmt.Sprintf("%s-v%d", p.GenerationPrefix, p.Version)
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// ApplyDefaults sets default values for missing configuration
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8090"
	}
	if c.Server.MetricsAddr == "" {
		c.Server.MetricsAddr = ":9090"
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "http://localhost:8000"
	}
	if c.Memory.SizeMB == 0 {
		c.Memory.SizeMB = 64
	}
	if c.Redis.ConnectTimeout == 0 {
		c.Redis.ConnectTimeout = 2 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 2 * time.Second
	}
	if c.Redis.SendTimeout == 0 {
		c.Redis.SendTimeout = 2 * time.Second
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Proxy.GenerationPrefix == "" {
		c.Proxy.GenerationPrefix = "optionsense-static"
	}
	if c.Proxy.Version == 0 {
		c.Proxy.Version = 1
	}
	if len(c.Proxy.PrecacheManifest) == 0 {
		c.Proxy.PrecacheManifest = []string{
			"/",
			"/index.html",
			"/styles.css",
			"/app.js",
			"/manifest.json",
			"/icon-192.png",
			"/icon-512.png",
		}
	}
	if c.Proxy.RoutePoliciesPath == "" {
		c.Proxy.RoutePoliciesPath = "route_policies.yaml"
	}
	if c.Sync.RefreshInterval == 0 {
		c.Sync.RefreshInterval = 60 * time.Second
	}
	if c.Sync.RetryDelay == 0 {
		c.Sync.RetryDelay = 10 * time.Second
	}
	if c.Sync.MaxRetries == 0 {
		c.Sync.MaxRetries = 3
	}
	if c.Sync.SnapshotTimeout == 0 {
		c.Sync.SnapshotTimeout = 25 * time.Second
	}
	if c.Sync.LookupTimeout == 0 {
		c.Sync.LookupTimeout = 30 * time.Second
	}
	if c.Sync.BulkTimeout == 0 {
		c.Sync.BulkTimeout = 120 * time.Second
	}
	if c.Sync.DebounceInterval == 0 {
		c.Sync.DebounceInterval = 300 * time.Millisecond
	}
	if c.Sync.SubpollInterval == 0 {
		c.Sync.SubpollInterval = 2 * time.Second
	}
	if c.Sync.SubpollMaxSymbols == 0 {
		c.Sync.SubpollMaxSymbols = 5
	}
}
