package syncctl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/metrics"
	"github.com/emailid501-ux/optionsense-app/internal/models"
	"github.com/emailid501-ux/optionsense-app/internal/scheduler"
)

// Trigger sources for the primary snapshot stream. The in-flight guard is
// authoritative: colliding triggers are dropped, never queued.
type trigger string

const (
	triggerPeriodic   trigger = "periodic"
	triggerManual     trigger = "manual"
	triggerRetry      trigger = "retry"
	triggerVisibility trigger = "visibility"
	triggerSymbol     trigger = "symbol"
)

// SnapshotPayload is the combined quote + option-chain summary for the
// primary stream.
type SnapshotPayload struct {
	Snapshot  *models.DashboardSnapshot `json:"snapshot"`
	OIDetails *models.OIDetails         `json:"oi_details"`
}

// Controller decides when and how often to issue logical fetches and
// translates raw outcomes into the retry-aware session state.
type Controller struct {
	client  interfaces.MarketClient
	session *Session
	picker  *BestPicker
	cfg     *config.SyncConfig
	logger  *zap.Logger

	periodic *scheduler.Scheduler
	subpoll  *subPoller
	search   *Debouncer

	inflight map[models.Stream]*atomic.Bool
	epochs   map[models.Stream]*atomic.Int64

	failures atomic.Int32
	terminal atomic.Bool
	visible  atomic.Bool

	retryMu    sync.Mutex
	retryTimer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates the sync controller. Call Start to begin periodic
// refreshes and Stop to tear everything down.
func NewController(
	client interfaces.MarketClient,
	session *Session,
	picker *BestPicker,
	cfg *config.SyncConfig,
	logger *zap.Logger,
) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		client:   client,
		session:  session,
		picker:   picker,
		cfg:      cfg,
		logger:   logger,
		inflight: make(map[models.Stream]*atomic.Bool),
		epochs:   make(map[models.Stream]*atomic.Int64),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, stream := range []models.Stream{
		models.StreamSnapshot,
		models.StreamScreener,
		models.StreamProAnalysis,
		models.StreamStockDetail,
	} {
		c.inflight[stream] = &atomic.Bool{}
		c.epochs[stream] = &atomic.Int64{}
	}

	c.visible.Store(true)
	c.subpoll = newSubPoller(client, session, cfg.SubpollInterval, cfg.LookupTimeout, cfg.SubpollMaxSymbols, logger)
	c.search = NewDebouncer(cfg.DebounceInterval, c.evaluateSearch)
	c.periodic = scheduler.New(cfg.RefreshInterval, func() {
		c.refreshSnapshot(triggerPeriodic)
	})

	return c
}

// Start kicks off the initial fetches and the periodic refresh timer.
func (c *Controller) Start() {
	c.logger.Info("Sync controller starting",
		zap.Duration("refresh_interval", c.cfg.RefreshInterval),
		zap.Int("max_retries", c.cfg.MaxRetries))

	c.refreshSnapshot(triggerManual)
	c.RefreshScreener()
	c.periodic.Start()
}

// Stop tears down all timers and waits for in-flight fetches to settle.
func (c *Controller) Stop() {
	c.periodic.Stop()
	c.subpoll.Stop()
	c.search.Stop()
	c.cancelRetry()
	c.cancel()
	c.wg.Wait()
	c.logger.Info("Sync controller stopped")
}

// ChangeSymbol switches the active index symbol and refreshes immediately.
func (c *Controller) ChangeSymbol(symbol string) error {
	if symbol != models.SymbolNifty && symbol != models.SymbolBankNifty {
		return fmt.Errorf("unsupported symbol %q", symbol)
	}
	c.session.SetSymbol(symbol)
	c.refreshSnapshot(triggerSymbol)
	return nil
}

// ChangeTab switches the active tab. Entering the screener tab re-enumerates
// the polling set and starts the live sub-poll; leaving it tears the timer
// down unconditionally.
func (c *Controller) ChangeTab(tab string) {
	c.session.SetTab(tab)

	if tab == models.TabScreener && c.visible.Load() {
		c.startSubpoll()
	} else {
		c.subpoll.Stop()
	}
}

// ChangeFilter switches the screener filter and reloads the list.
func (c *Controller) ChangeFilter(filter string) {
	c.session.SetFilter(filter)
	c.RefreshScreener()
}

// Search feeds free-text input into the debounced on-demand lookup.
// immediate bypasses the debounce, for an explicit confirmation key.
func (c *Controller) Search(text string, immediate bool) {
	if immediate {
		c.search.FireNow(text)
		return
	}
	c.search.Fire(text)
}

// ManualRefresh unconditionally triggers the primary snapshot stream. It
// supersedes any pending retry episode.
func (c *Controller) ManualRefresh() {
	c.refreshSnapshot(triggerManual)
}

// VisibilityChanged handles foreground/background transitions. Becoming
// visible refreshes the snapshot immediately, independent of the periodic
// timer's phase. Becoming hidden stops the live sub-poll.
func (c *Controller) VisibilityChanged(visible bool) {
	wasVisible := c.visible.Swap(visible)

	if visible && !wasVisible {
		c.refreshSnapshot(triggerVisibility)
		if c.session.Tab() == models.TabScreener {
			c.startSubpoll()
		}
		return
	}
	if !visible {
		c.subpoll.Stop()
	}
}

// refreshSnapshot runs one attempt of the primary stream. A trigger that
// collides with an in-flight attempt is dropped.
func (c *Controller) refreshSnapshot(src trigger) {
	// A fresh periodic tick or user action restarts a terminal stream with
	// a clean failure counter.
	if src != triggerRetry && c.terminal.Load() {
		c.terminal.Store(false)
		c.failures.Store(0)
	}
	// A manually-triggered fetch supersedes the pending retry episode.
	if src != triggerRetry {
		c.cancelRetry()
	}

	guard := c.inflight[models.StreamSnapshot]
	if !guard.CompareAndSwap(false, true) {
		metrics.RecordStreamDropped(string(models.StreamSnapshot))
		c.logger.Debug("Snapshot trigger dropped, fetch in flight", zap.String("trigger", string(src)))
		return
	}

	epoch := c.epochs[models.StreamSnapshot].Add(1)
	c.session.SetLoading(models.StreamSnapshot)

	c.wg.Add(1)
	go c.runSnapshot(epoch, src, guard)
}

func (c *Controller) runSnapshot(epoch int64, src trigger, guard *atomic.Bool) {
	defer c.wg.Done()
	defer guard.Store(false)
	done := metrics.TimeFetch(string(models.StreamSnapshot))
	defer done()

	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.SnapshotTimeout)
	defer cancel()

	symbol := c.session.Symbol()
	start := time.Now()

	snapshot, err := c.client.DashboardSnapshot(ctx, symbol)
	var details *models.OIDetails
	if err == nil {
		details, err = c.client.OIDetails(ctx, symbol)
	}

	// A newer attempt owns the stream now; this outcome must not be applied.
	if c.epochs[models.StreamSnapshot].Load() != epoch {
		c.logger.Debug("Discarding superseded snapshot result",
			zap.Int64("epoch", epoch),
			zap.Duration("elapsed", time.Since(start)))
		return
	}

	if err != nil {
		c.snapshotFailed(src, err, time.Since(start))
		return
	}

	metrics.RecordStreamAttempt(string(models.StreamSnapshot), "success")
	c.failures.Store(0)
	c.terminal.Store(false)
	c.cancelRetry()
	c.session.SetData(models.StreamSnapshot, &SnapshotPayload{
		Snapshot:  snapshot,
		OIDetails: details,
	})

	// Enrichment overlay is chained after a successful snapshot; its failure
	// never fails the snapshot stream.
	c.fetchProAnalysis(symbol)
}

func (c *Controller) snapshotFailed(src trigger, err error, elapsed time.Duration) {
	kind := models.ClassifyError(err)
	metrics.RecordStreamAttempt(string(models.StreamSnapshot), kind)

	attempt := int(c.failures.Add(1))
	c.logger.Warn("Snapshot fetch failed",
		zap.String("stream", string(models.StreamSnapshot)),
		zap.String("trigger", string(src)),
		zap.String("kind", kind),
		zap.Int("attempt", attempt),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))

	if attempt < c.cfg.MaxRetries {
		c.session.SetError(models.StreamSnapshot,
			fmt.Sprintf("Connection error. Retrying... (%d/%d)", attempt, c.cfg.MaxRetries),
			attempt)
		c.scheduleRetry()
		return
	}

	// Terminal display state: no further automatic retry until the next
	// periodic tick or manual action.
	c.terminal.Store(true)
	c.session.SetError(models.StreamSnapshot,
		fmt.Sprintf("Connection failed after %d attempts", c.cfg.MaxRetries),
		attempt)
}

// scheduleRetry arms exactly one retry after the fixed delay. An already
// armed timer is left alone.
func (c *Controller) scheduleRetry() {
	c.retryMu.Lock()
	defer c.retryMu.Unlock()

	if c.retryTimer != nil {
		return
	}
	c.retryTimer = time.AfterFunc(c.cfg.RetryDelay, func() {
		c.retryMu.Lock()
		c.retryTimer = nil
		c.retryMu.Unlock()
		c.refreshSnapshot(triggerRetry)
	})
}

func (c *Controller) cancelRetry() {
	c.retryMu.Lock()
	defer c.retryMu.Unlock()

	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

// fetchProAnalysis runs the advanced-indicator overlay for the symbol.
func (c *Controller) fetchProAnalysis(symbol string) {
	guard := c.inflight[models.StreamProAnalysis]
	if !guard.CompareAndSwap(false, true) {
		metrics.RecordStreamDropped(string(models.StreamProAnalysis))
		return
	}

	epoch := c.epochs[models.StreamProAnalysis].Add(1)
	c.session.SetLoading(models.StreamProAnalysis)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer guard.Store(false)

		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.LookupTimeout)
		defer cancel()

		analysis, err := c.client.ProAnalysis(ctx, symbol)
		if c.epochs[models.StreamProAnalysis].Load() != epoch {
			return
		}

		if err != nil {
			metrics.RecordStreamAttempt(string(models.StreamProAnalysis), models.ClassifyError(err))
			c.logger.Warn("Pro analysis fetch failed",
				zap.String("symbol", symbol),
				zap.Error(err))
			c.session.SetError(models.StreamProAnalysis, "Advanced analysis unavailable", 0)
			return
		}

		metrics.RecordStreamAttempt(string(models.StreamProAnalysis), "success")
		c.session.SetData(models.StreamProAnalysis, analysis)
	}()
}

// RefreshScreener reloads the bulk recommendation list for the active
// filter.
func (c *Controller) RefreshScreener() {
	guard := c.inflight[models.StreamScreener]
	if !guard.CompareAndSwap(false, true) {
		metrics.RecordStreamDropped(string(models.StreamScreener))
		return
	}

	epoch := c.epochs[models.StreamScreener].Add(1)
	c.session.SetLoading(models.StreamScreener)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer guard.Store(false)
		done := metrics.TimeFetch(string(models.StreamScreener))
		defer done()

		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.BulkTimeout)
		defer cancel()

		filter := c.session.Filter()
		list, err := c.client.Screener(ctx, filter)
		if c.epochs[models.StreamScreener].Load() != epoch {
			return
		}

		if err != nil {
			metrics.RecordStreamAttempt(string(models.StreamScreener), models.ClassifyError(err))
			c.logger.Warn("Screener fetch failed",
				zap.String("filter", filter),
				zap.Error(err))
			c.session.SetError(models.StreamScreener, "Failed to load screener", 0)
			return
		}

		metrics.RecordStreamAttempt(string(models.StreamScreener), "success")
		c.session.SetData(models.StreamScreener, list)
		c.picker.Evaluate(list.Stocks)

		if c.session.Tab() == models.TabScreener && c.visible.Load() {
			c.startSubpoll()
		}
	}()
}

// evaluateSearch resolves a quiescent search input. Symbols already present
// in the loaded screener list are served from it without a fetch.
func (c *Controller) evaluateSearch(text string) {
	symbol := strings.ToUpper(strings.TrimSpace(text))
	if symbol == "" {
		return
	}

	if item := c.findInScreener(symbol); item != nil {
		c.session.SetData(models.StreamStockDetail, item)
		return
	}

	guard := c.inflight[models.StreamStockDetail]
	if !guard.CompareAndSwap(false, true) {
		metrics.RecordStreamDropped(string(models.StreamStockDetail))
		return
	}

	epoch := c.epochs[models.StreamStockDetail].Add(1)
	c.session.SetLoading(models.StreamStockDetail)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer guard.Store(false)

		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.LookupTimeout)
		defer cancel()

		item, err := c.client.StockDetail(ctx, symbol)
		if c.epochs[models.StreamStockDetail].Load() != epoch {
			return
		}

		if err != nil {
			metrics.RecordStreamAttempt(string(models.StreamStockDetail), models.ClassifyError(err))
			c.logger.Warn("Stock lookup failed",
				zap.String("symbol", symbol),
				zap.Error(err))
			c.session.SetError(models.StreamStockDetail, fmt.Sprintf("Stock %s not found", symbol), 0)
			return
		}

		metrics.RecordStreamAttempt(string(models.StreamStockDetail), "success")
		c.session.SetData(models.StreamStockDetail, item)
	}()
}

// startSubpoll (re-)enumerates currently loaded screener symbols into the
// polling set.
func (c *Controller) startSubpoll() {
	list := c.loadedScreener()
	if list == nil || len(list.Stocks) == 0 {
		return
	}

	symbols := make([]string, 0, len(list.Stocks))
	for _, stock := range list.Stocks {
		symbols = append(symbols, stock.Symbol)
	}
	c.subpoll.Start(symbols)
}

func (c *Controller) findInScreener(symbol string) *models.ScreenerItem {
	list := c.loadedScreener()
	if list == nil {
		return nil
	}
	for i := range list.Stocks {
		if list.Stocks[i].Symbol == symbol {
			return &list.Stocks[i]
		}
	}
	return nil
}

func (c *Controller) loadedScreener() *models.ScreenerList {
	state := c.session.Stream(models.StreamScreener)
	list, ok := state.Data.(*models.ScreenerList)
	if !ok {
		return nil
	}
	return list
}

// SubpollRunning reports whether the live sub-poll timer is active.
func (c *Controller) SubpollRunning() bool {
	return c.subpoll.Running()
}
