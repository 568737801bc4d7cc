package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/metrics"
	"github.com/emailid501-ux/optionsense-app/internal/models"
	"github.com/emailid501-ux/optionsense-app/internal/policy"
)

// State is the proxy lifecycle state.
type State int32

const (
	StateNew State = iota
	StateInstalling
	StateWaiting
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	default:
		return "new"
	}
}

// Ensure Proxy implements http.RoundTripper
var _ http.RoundTripper = (*Proxy)(nil)

// Proxy intercepts every outbound request and applies the per-route cache
// policy over the current generation's store. It owns the generation
// lifecycle: install populates a new generation, activate prunes all others.
type Proxy struct {
	base        http.RoundTripper
	generations interfaces.GenerationStore
	keys        interfaces.KeyBuilder
	table       *policy.Table
	generation  string
	baseURL     *url.URL
	manifest    []string
	logger      *zap.Logger

	state atomic.Int32
	mu    sync.RWMutex
	store interfaces.Store

	// Outstanding asynchronous cache writes. Waited on by tests and shutdown,
	// never by a response path.
	writes sync.WaitGroup
}

// New creates a proxy over the given base transport. The proxy is inert
// (pass-through) until Install and Activate have run.
func New(
	base http.RoundTripper,
	generations interfaces.GenerationStore,
	keys interfaces.KeyBuilder,
	table *policy.Table,
	generation string,
	baseURL *url.URL,
	manifest []string,
	logger *zap.Logger,
) *Proxy {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Proxy{
		base:        base,
		generations: generations,
		keys:        keys,
		table:       table,
		generation:  generation,
		baseURL:     baseURL,
		manifest:    manifest,
		logger:      logger,
	}
}

// State returns the current lifecycle state.
func (p *Proxy) State() State {
	return State(p.state.Load())
}

// Generation returns the name of the generation this proxy serves.
func (p *Proxy) Generation() string {
	return p.generation
}

// Client returns an http.Client whose transport is this proxy.
func (p *Proxy) Client(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: p,
		Timeout:   timeout,
	}
}

// Install populates a new generation's store with the baseline asset
// manifest. Failure of any manifest fetch fails installation atomically:
// the partial generation is deleted and never promoted. On success the proxy
// moves straight to waiting; it does not drain prior instances.
func (p *Proxy) Install(ctx context.Context) error {
	p.state.Store(int32(StateInstalling))
	p.logger.Info("Installing cache generation", zap.String("generation", p.generation))

	store, err := p.generations.Open(p.generation)
	if err != nil {
		return fmt.Errorf("failed to open generation %q: %w", p.generation, err)
	}

	for _, path := range p.manifest {
		if err := p.precache(ctx, store, path); err != nil {
			// Atomic install: no partial generation survives.
			if delErr := p.generations.Delete(p.generation); delErr != nil {
				p.logger.Error("Failed to discard partial generation",
					zap.String("generation", p.generation),
					zap.Error(delErr))
			}
			return fmt.Errorf("install failed on %q: %w", path, err)
		}
	}

	p.mu.Lock()
	p.store = store
	p.mu.Unlock()

	// Skip-waiting semantics: the newest generation is eligible immediately.
	p.state.Store(int32(StateWaiting))
	p.logger.Info("Cache generation installed",
		zap.String("generation", p.generation),
		zap.Int("precached", len(p.manifest)))
	return nil
}

// Activate prunes every generation other than the current one, then begins
// intercepting all requests so already-open consumers pick up the new
// policies without a restart.
func (p *Proxy) Activate() error {
	names, err := p.generations.List()
	if err != nil {
		return fmt.Errorf("failed to list generations: %w", err)
	}

	for _, name := range names {
		if name == p.generation {
			continue
		}
		if err := p.generations.Delete(name); err != nil {
			return fmt.Errorf("failed to prune generation %q: %w", name, err)
		}
		metrics.RecordGenerationPruned()
		p.logger.Info("Pruned superseded generation", zap.String("generation", name))
	}

	p.state.Store(int32(StateActive))
	p.logger.Info("Cache proxy active", zap.String("generation", p.generation))
	return nil
}

// RoundTrip applies the route policy for the request path. Until the proxy
// is active, requests pass through to the base transport untouched.
func (p *Proxy) RoundTrip(req *http.Request) (*http.Response, error) {
	if p.State() != StateActive {
		return p.base.RoundTrip(req)
	}

	pol := p.table.Resolve(req.URL.Path)
	metrics.RecordProxyRequest(string(pol))

	switch pol {
	case models.PolicyNetworkFirst:
		return p.networkFirst(req)
	default:
		return p.cacheFirst(req)
	}
}

// networkFirst issues the network request and returns the live response,
// storing a copy asynchronously. Only a transport failure falls back to the
// cache; an HTTP error status is returned to the caller as-is. A cache miss
// during fallback propagates the original transport error unchanged.
func (p *Proxy) networkFirst(req *http.Request) (*http.Response, error) {
	key := p.keys.Build(req)

	resp, err := p.base.RoundTrip(req)
	if err == nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			resp = p.storeAsync(key, resp)
		}
		return resp, nil
	}

	exchange, found := p.currentStore().Get(key)
	if !found {
		metrics.RecordCacheMiss(string(models.PolicyNetworkFirst))
		return nil, err
	}

	metrics.RecordCacheHit(string(models.PolicyNetworkFirst))
	p.logger.Warn("Serving cached fallback after network failure",
		zap.String("key", key),
		zap.Duration("age", exchange.Age()),
		zap.Error(err))
	return synthesize(req, exchange), nil
}

// cacheFirst serves from the store with no network round-trip when the
// identity is present. On a miss it goes to the network and stores a
// successful GET response before returning it.
func (p *Proxy) cacheFirst(req *http.Request) (*http.Response, error) {
	key := p.keys.Build(req)

	if exchange, found := p.currentStore().Get(key); found {
		metrics.RecordCacheHit(string(models.PolicyCacheFirst))
		return synthesize(req, exchange), nil
	}
	metrics.RecordCacheMiss(string(models.PolicyCacheFirst))

	resp, err := p.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if req.Method == http.MethodGet && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		resp = p.storeAsync(key, resp)
	}
	return resp, nil
}

// WaitWrites blocks until all in-flight asynchronous cache writes complete.
func (p *Proxy) WaitWrites() {
	p.writes.Wait()
}

func (p *Proxy) currentStore() interfaces.Store {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.store
}

// storeAsync captures the response body, spawns a background write into the
// current generation, and returns a response whose body is replayable. The
// write never blocks or fails the response path; errors are logged and
// dropped inside the store.
func (p *Proxy) storeAsync(key string, resp *http.Response) *http.Response {
	body, err := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if err != nil || closeErr != nil {
		p.logger.Warn("Failed to capture response body for caching",
			zap.String("key", key),
			zap.Error(err))
		resp.Body = io.NopCloser(bytes.NewReader(body))
		return resp
	}

	exchange := &models.CachedExchange{
		Status:     resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		CapturedAt: time.Now().Unix(),
	}

	store := p.currentStore()
	p.writes.Add(1)
	go func() {
		defer p.writes.Done()
		store.Put(key, exchange)
	}()

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp
}

// precache fetches one manifest path from upstream and writes it into the
// new generation synchronously.
func (p *Proxy) precache(ctx context.Context, store interfaces.Store, path string) error {
	target := p.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}

	resp, err := p.base.RoundTrip(req)
	if err != nil {
		return &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	store.Put(p.keys.Build(req), &models.CachedExchange{
		Status:     resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		CapturedAt: time.Now().Unix(),
	})
	return nil
}

// synthesize rebuilds an http.Response from a cached exchange.
func synthesize(req *http.Request, exchange *models.CachedExchange) *http.Response {
	header := make(http.Header, len(exchange.Header))
	for k, vs := range exchange.Header {
		header[k] = vs
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", exchange.Status, http.StatusText(exchange.Status)),
		StatusCode:    exchange.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(exchange.Body)),
		ContentLength: int64(len(exchange.Body)),
		Request:       req,
	}
}
