package interfaces

import (
	"context"

	"github.com/emailid501-ux/optionsense-app/internal/models"
)

//go:generate mockgen -package=mock -source=market_client.go -destination=mock/market_client.go

// MarketClient is the typed view of the upstream analytics API. All calls go
// through the cache proxy transport; bodies are opaque pass-through payloads
// except for the fields the controller inspects.
type MarketClient interface {
	// DashboardSnapshot fetches the combined quote + sentiment snapshot for
	// an index symbol.
	DashboardSnapshot(ctx context.Context, symbol string) (*models.DashboardSnapshot, error)

	// OIDetails fetches the option-chain summary for an index symbol.
	OIDetails(ctx context.Context, symbol string) (*models.OIDetails, error)

	// Screener fetches the bulk recommendation list for a filter.
	Screener(ctx context.Context, filter string) (*models.ScreenerList, error)

	// StockDetail fetches a single symbol absent from the loaded list.
	StockDetail(ctx context.Context, symbol string) (*models.ScreenerItem, error)

	// ProAnalysis fetches the advanced-indicator overlay for an index symbol.
	ProAnalysis(ctx context.Context, symbol string) (*models.ProAnalysis, error)

	// LivePrices fetches price-only refreshes for up to a handful of symbols.
	LivePrices(ctx context.Context, symbols []string) ([]models.LivePrice, error)
}
