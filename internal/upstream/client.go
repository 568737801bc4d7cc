package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// Ensure Client implements interfaces.MarketClient
var _ interfaces.MarketClient = (*Client)(nil)

// Client is the typed view of the analytics API. It issues plain GETs
// through the injected http.Client, which carries the cache proxy as its
// transport, and translates failures into the error taxonomy.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// ParseBaseURL validates and parses the analytics API base URL.
func ParseBaseURL(baseURL string) (*url.URL, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("upstream base URL must be absolute, got %q", baseURL)
	}
	return parsed, nil
}

// NewClient creates a new market client over the given HTTP client
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: parsed,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// DashboardSnapshot fetches the combined quote + sentiment snapshot.
func (c *Client) DashboardSnapshot(ctx context.Context, symbol string) (*models.DashboardSnapshot, error) {
	var snapshot models.DashboardSnapshot
	if err := c.getJSON(ctx, "/dashboard-snapshot", url.Values{"symbol": {symbol}}, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// OIDetails fetches the option-chain summary.
func (c *Client) OIDetails(ctx context.Context, symbol string) (*models.OIDetails, error) {
	var details models.OIDetails
	if err := c.getJSON(ctx, "/oi-details", url.Values{"symbol": {symbol}}, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Screener fetches the bulk recommendation list for a filter.
func (c *Client) Screener(ctx context.Context, filter string) (*models.ScreenerList, error) {
	var list models.ScreenerList
	if err := c.getJSON(ctx, "/stock-screener", url.Values{"filter": {filter}}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// StockDetail fetches a single symbol lookup.
func (c *Client) StockDetail(ctx context.Context, symbol string) (*models.ScreenerItem, error) {
	var item models.ScreenerItem
	if err := c.getJSON(ctx, "/stock/"+symbol, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ProAnalysis fetches the advanced-indicator overlay.
func (c *Client) ProAnalysis(ctx context.Context, symbol string) (*models.ProAnalysis, error) {
	var analysis models.ProAnalysis
	if err := c.getJSON(ctx, "/pro-analysis", url.Values{"symbol": {symbol}}, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// LivePrices fetches price-only refreshes for the given symbols in parallel.
// Individual failures are logged and skipped; the call fails only when every
// symbol fails.
func (c *Client) LivePrices(ctx context.Context, symbols []string) ([]models.LivePrice, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	type result struct {
		price models.LivePrice
		err   error
	}
	resultsChan := make(chan result, len(symbols))

	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			item, err := c.StockDetail(ctx, sym)
			if err != nil {
				resultsChan <- result{err: err}
				return
			}
			resultsChan <- result{price: models.LivePrice{
				Symbol:    item.Symbol,
				Price:     item.Price,
				ChangePct: item.ChangePct,
			}}
		}(symbol)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	prices := make([]models.LivePrice, 0, len(symbols))
	var lastErr error
	for res := range resultsChan {
		if res.err != nil {
			lastErr = res.err
			continue
		}
		prices = append(prices, res.price)
	}

	if len(prices) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return prices, nil
}

// getJSON issues a GET and decodes the JSON body, mapping failures into the
// error taxonomy: transport and deadline failures are retryable, non-2xx is
// an upstream rejection surfaced without retry.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %q: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &models.TimeoutError{Elapsed: time.Since(start)}
		}
		return &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the transport can reuse the connection.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &models.UpstreamError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %q response: %w", path, err)
	}
	return nil
}
