package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RoutePolicy selects the fetch strategy for a URL-path prefix.
type RoutePolicy string

const (
	// PolicyNetworkFirst issues the network request first and falls back to
	// the cache only on transport failure. Used for dynamic analytics routes.
	PolicyNetworkFirst RoutePolicy = "network_first"

	// PolicyCacheFirst serves from the cache when present and only goes to
	// the network on a miss. Used for static assets, immutable within a
	// generation.
	PolicyCacheFirst RoutePolicy = "cache_first"
)

// UnmarshalYAML implements custom YAML unmarshaling for RoutePolicy
func (p *RoutePolicy) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "network_first", "cache_first":
		*p = RoutePolicy(str)
		return nil
	default:
		return fmt.Errorf("invalid route policy '%s': must be one of 'network_first', 'cache_first'", str)
	}
}
