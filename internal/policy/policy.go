package policy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// RoutePoliciesConfig is the YAML structure binding URL-path prefixes to
// fetch policies. Every request matches exactly one policy; unmatched paths
// take the default.
type RoutePoliciesConfig struct {
	DefaultPolicy models.RoutePolicy            `yaml:"default_policy"`
	Routes        map[string]models.RoutePolicy `yaml:"routes"`
}

// Table resolves a request path to its route policy by longest-prefix match.
type Table struct {
	defaultPolicy models.RoutePolicy
	prefixes      []string // sorted longest-first
	policies      map[string]models.RoutePolicy
	logger        *zap.Logger
}

// NewTable creates a policy table from a loaded config
func NewTable(cfg *RoutePoliciesConfig, logger *zap.Logger) *Table {
	prefixes := make([]string, 0, len(cfg.Routes))
	for prefix := range cfg.Routes {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		return len(prefixes[i]) > len(prefixes[j])
	})

	defaultPolicy := cfg.DefaultPolicy
	if defaultPolicy == "" {
		defaultPolicy = models.PolicyCacheFirst
	}

	return &Table{
		defaultPolicy: defaultPolicy,
		prefixes:      prefixes,
		policies:      cfg.Routes,
		logger:        logger,
	}
}

// Resolve returns the policy bound to the longest matching path prefix,
// or the default policy when no prefix matches.
func (t *Table) Resolve(path string) models.RoutePolicy {
	for _, prefix := range t.prefixes {
		if strings.HasPrefix(path, prefix) {
			return t.policies[prefix]
		}
	}
	return t.defaultPolicy
}

// DefaultPolicy returns the policy applied to unmatched paths.
func (t *Table) DefaultPolicy() models.RoutePolicy {
	return t.defaultPolicy
}

// LoadRoutePolicies loads route policies from a YAML file
func LoadRoutePolicies(rulesPath string, logger *zap.Logger) (*Table, error) {
	logger.Info("Loading route policies", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open route policies file: %w", err)
	}
	defer file.Close()

	var config RoutePoliciesConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML route policies: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("route policies validation failed: %w", err)
	}

	logger.Info("Route policies loaded successfully",
		zap.Int("routes", len(config.Routes)),
		zap.String("default", string(config.DefaultPolicy)))

	return NewTable(&config, logger), nil
}

// DefaultTable returns the built-in policy table: network-first for the
// dynamic analytics route prefixes, cache-first for everything else.
func DefaultTable(logger *zap.Logger) *Table {
	return NewTable(&RoutePoliciesConfig{
		DefaultPolicy: models.PolicyCacheFirst,
		Routes: map[string]models.RoutePolicy{
			"/dashboard-snapshot": models.PolicyNetworkFirst,
			"/oi-details":         models.PolicyNetworkFirst,
			"/stock-screener":     models.PolicyNetworkFirst,
			"/stock":              models.PolicyNetworkFirst,
			"/pro-analysis":       models.PolicyNetworkFirst,
		},
	}, logger)
}

// validateConfig validates the route policies configuration structure
func validateConfig(config *RoutePoliciesConfig) error {
	for prefix := range config.Routes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("route prefix %q must start with '/'", prefix)
		}
	}
	return nil
}
