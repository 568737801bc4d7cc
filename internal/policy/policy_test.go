package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/models"
)

func TestTable_Resolve(t *testing.T) {
	table := NewTable(&RoutePoliciesConfig{
		DefaultPolicy: models.PolicyCacheFirst,
		Routes: map[string]models.RoutePolicy{
			"/dashboard-snapshot": models.PolicyNetworkFirst,
			"/stock-screener":     models.PolicyNetworkFirst,
			"/stock":              models.PolicyNetworkFirst,
		},
	}, zap.NewNop())

	tests := []struct {
		path     string
		expected models.RoutePolicy
	}{
		{"/dashboard-snapshot", models.PolicyNetworkFirst},
		{"/stock/RELIANCE", models.PolicyNetworkFirst},
		// Longest prefix wins over the shorter /stock prefix
		{"/stock-screener", models.PolicyNetworkFirst},
		{"/index.html", models.PolicyCacheFirst},
		{"/styles.css", models.PolicyCacheFirst},
		{"/", models.PolicyCacheFirst},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Resolve(tt.path))
		})
	}
}

func TestTable_EmptyDefaultFallsBackToCacheFirst(t *testing.T) {
	table := NewTable(&RoutePoliciesConfig{}, zap.NewNop())

	assert.Equal(t, models.PolicyCacheFirst, table.DefaultPolicy())
	assert.Equal(t, models.PolicyCacheFirst, table.Resolve("/anything"))
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable(zap.NewNop())

	assert.Equal(t, models.PolicyNetworkFirst, table.Resolve("/oi-details?symbol=NIFTY"))
	assert.Equal(t, models.PolicyNetworkFirst, table.Resolve("/pro-analysis?symbol=NIFTY"))
	assert.Equal(t, models.PolicyCacheFirst, table.Resolve("/app.js"))
	assert.Equal(t, models.PolicyCacheFirst, table.DefaultPolicy())
}

func TestLoadRoutePolicies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "route_policies.yaml")
	content := `default_policy: cache_first
routes:
  /dashboard-snapshot: network_first
  /oi-details: network_first
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadRoutePolicies(path, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, models.PolicyNetworkFirst, table.Resolve("/dashboard-snapshot"))
	assert.Equal(t, models.PolicyCacheFirst, table.Resolve("/index.html"))
}

func TestLoadRoutePolicies_InvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "route_policies.yaml")
	content := `default_policy: cache_first
routes:
  /dashboard-snapshot: stale_while_revalidate
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadRoutePolicies(path, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadRoutePolicies_InvalidPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "route_policies.yaml")
	content := `default_policy: cache_first
routes:
  dashboard-snapshot: network_first
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadRoutePolicies(path, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadRoutePolicies_MissingFile(t *testing.T) {
	_, err := LoadRoutePolicies("/nonexistent/route_policies.yaml", zap.NewNop())
	assert.Error(t, err)
}
