package syncctl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/metrics"
	"github.com/emailid501-ux/optionsense-app/internal/models"
	"github.com/emailid501-ux/optionsense-app/internal/scheduler"
)

// subPoller drives the high-frequency live-price refresh. It runs only
// while the screener tab is visible, polls at a fixed period, and caps the
// fan-out per tick.
type subPoller struct {
	client     interfaces.MarketClient
	session    *Session
	interval   time.Duration
	timeout    time.Duration
	maxSymbols int
	logger     *zap.Logger

	mu       sync.Mutex
	sched    *scheduler.Scheduler
	symbols  []string
	inflight atomic.Bool
}

func newSubPoller(client interfaces.MarketClient, session *Session, interval, timeout time.Duration, maxSymbols int, logger *zap.Logger) *subPoller {
	return &subPoller{
		client:     client,
		session:    session,
		interval:   interval,
		timeout:    timeout,
		maxSymbols: maxSymbols,
		logger:     logger,
	}
}

// Start (re-)enumerates the polling set, capped at maxSymbols in enumeration
// order, and begins ticking. The first poll fires immediately so prices
// appear within one rendering cycle of the list becoming visible.
func (sp *subPoller) Start(symbols []string) {
	sp.Stop()

	if len(symbols) > sp.maxSymbols {
		symbols = symbols[:sp.maxSymbols]
	}

	sp.mu.Lock()
	sp.symbols = symbols
	sp.sched = scheduler.NewImmediate(sp.interval, sp.tick)
	sp.sched.Start()
	sp.mu.Unlock()

	sp.logger.Debug("Live price sub-poll started",
		zap.Strings("symbols", symbols),
		zap.Duration("interval", sp.interval))
}

// Stop tears the timer down unconditionally so no background polling
// continues for an inactive view.
func (sp *subPoller) Stop() {
	sp.mu.Lock()
	sched := sp.sched
	sp.sched = nil
	sp.symbols = nil
	sp.mu.Unlock()

	if sched != nil {
		sched.Stop()
		sp.logger.Debug("Live price sub-poll stopped")
	}
}

// Running reports whether the poller is active.
func (sp *subPoller) Running() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.sched != nil
}

func (sp *subPoller) tick() {
	sp.mu.Lock()
	symbols := sp.symbols
	sp.mu.Unlock()
	if len(symbols) == 0 {
		return
	}

	// A slow previous tick is never overlapped, it is dropped.
	if !sp.inflight.CompareAndSwap(false, true) {
		metrics.RecordStreamDropped(string(models.StreamLivePrices))
		return
	}
	defer sp.inflight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), sp.timeout)
	defer cancel()

	prices, err := sp.client.LivePrices(ctx, symbols)
	if err != nil {
		metrics.RecordStreamAttempt(string(models.StreamLivePrices), models.ClassifyError(err))
		sp.logger.Warn("Live price poll failed",
			zap.Int("symbols", len(symbols)),
			zap.Error(err))
		return
	}

	metrics.RecordStreamAttempt(string(models.StreamLivePrices), "success")
	sp.session.SetData(models.StreamLivePrices, prices)
}
