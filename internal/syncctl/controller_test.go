package syncctl

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces/mock"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

func testSyncConfig() *config.SyncConfig {
	return &config.SyncConfig{
		RefreshInterval:   time.Hour, // periodic tick stays out of the way
		RetryDelay:        20 * time.Millisecond,
		MaxRetries:        3,
		SnapshotTimeout:   time.Second,
		LookupTimeout:     time.Second,
		BulkTimeout:       time.Second,
		DebounceInterval:  10 * time.Millisecond,
		SubpollInterval:   time.Hour,
		SubpollMaxSymbols: 5,
	}
}

func newTestController(t *testing.T, client *mock.MockMarketClient) (*Controller, *Session) {
	return newTestControllerWithConfig(t, client, testSyncConfig())
}

func newTestControllerWithConfig(t *testing.T, client *mock.MockMarketClient, cfg *config.SyncConfig) (*Controller, *Session) {
	t.Helper()
	session := NewSession(models.SymbolNifty, models.TabDashboard, "all")
	notifier := mock.NewMockNotifier(gomock.NewController(t))
	notifier.EXPECT().Show(gomock.Any()).Return(nil).AnyTimes()
	picker := NewBestPicker(notifier, zap.NewNop())
	c := NewController(client, session, picker, cfg, zap.NewNop())
	t.Cleanup(c.Stop)
	return c, session
}

func expectHealthyBackend(client *mock.MockMarketClient) {
	client.EXPECT().DashboardSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, symbol string) (*models.DashboardSnapshot, error) {
			return &models.DashboardSnapshot{Status: "success", Symbol: symbol}, nil
		},
	).AnyTimes()
	client.EXPECT().OIDetails(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, symbol string) (*models.OIDetails, error) {
			return &models.OIDetails{Status: "success", Symbol: symbol, ATMStrike: 24150}, nil
		},
	).AnyTimes()
	client.EXPECT().ProAnalysis(gomock.Any(), gomock.Any()).Return(
		&models.ProAnalysis{Status: "success", Verdict: "BULLISH"}, nil,
	).AnyTimes()
	client.EXPECT().Screener(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, filter string) (*models.ScreenerList, error) {
			return &models.ScreenerList{
				Status: "success",
				Filter: filter,
				Stocks: []models.ScreenerItem{
					{Symbol: "RELIANCE", Price: 2890.5, Score: 8.5, Recommendation: "BUY"},
					{Symbol: "TCS", Price: 4100.0, Score: 5.0, Recommendation: "HOLD"},
				},
			}, nil
		},
	).AnyTimes()
}

func waitForData(t *testing.T, session *Session, stream models.Stream) {
	t.Helper()
	require.Eventually(t, func() bool {
		return session.Stream(stream).Data != nil && !session.Stream(stream).Loading
	}, 2*time.Second, 5*time.Millisecond)
}

func TestController_StartLoadsAllStreams(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)
	expectHealthyBackend(client)

	c, session := newTestController(t, client)
	c.Start()

	waitForData(t, session, models.StreamSnapshot)
	waitForData(t, session, models.StreamScreener)
	waitForData(t, session, models.StreamProAnalysis)

	payload, ok := session.Stream(models.StreamSnapshot).Data.(*SnapshotPayload)
	require.True(t, ok)
	assert.Equal(t, models.SymbolNifty, payload.Snapshot.Symbol)
	assert.Equal(t, 24150, payload.OIDetails.ATMStrike)

	list, ok := session.Stream(models.StreamScreener).Data.(*models.ScreenerList)
	require.True(t, ok)
	assert.Len(t, list.Stocks, 2)
}

func TestController_FailureSetsRetryingErrorAndKeepsData(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	var calls atomic.Int64
	client.EXPECT().DashboardSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, symbol string) (*models.DashboardSnapshot, error) {
			if calls.Add(1) == 1 {
				return &models.DashboardSnapshot{Status: "success", Symbol: symbol}, nil
			}
			return nil, &models.UpstreamError{StatusCode: 503}
		},
	).AnyTimes()
	client.EXPECT().OIDetails(gomock.Any(), gomock.Any()).Return(
		&models.OIDetails{Status: "success"}, nil,
	).AnyTimes()
	client.EXPECT().ProAnalysis(gomock.Any(), gomock.Any()).Return(
		&models.ProAnalysis{Status: "success"}, nil,
	).AnyTimes()

	// A long retry delay keeps the attempt counter parked at 1 while the
	// error state is inspected.
	cfg := testSyncConfig()
	cfg.RetryDelay = time.Hour
	c, session := newTestControllerWithConfig(t, client, cfg)

	// First fetch succeeds and populates the stream.
	c.refreshSnapshot(triggerManual)
	waitForData(t, session, models.StreamSnapshot)

	// The next fetch hits a 503: error state with attempt 1, last good
	// payload still visible, not loading.
	c.refreshSnapshot(triggerManual)
	require.Eventually(t, func() bool {
		return session.Stream(models.StreamSnapshot).Error != ""
	}, 2*time.Second, 5*time.Millisecond)

	state := session.Stream(models.StreamSnapshot)
	assert.Equal(t, "Connection error. Retrying... (1/3)", state.Error)
	assert.Equal(t, 1, state.RetryAttempt)
	assert.False(t, state.Loading)
	assert.NotNil(t, state.Data)
}

func TestController_RetriesUntilTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	var calls atomic.Int64
	client.EXPECT().DashboardSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, symbol string) (*models.DashboardSnapshot, error) {
			calls.Add(1)
			return nil, &models.TransportError{Err: assert.AnError}
		},
	).AnyTimes()

	c, session := newTestController(t, client)
	c.refreshSnapshot(triggerManual)

	// Attempts 1 and 2 schedule retries; attempt 3 is terminal.
	require.Eventually(t, func() bool {
		return strings.Contains(session.Stream(models.StreamSnapshot).Error, "failed after")
	}, 2*time.Second, 5*time.Millisecond)

	state := session.Stream(models.StreamSnapshot)
	assert.Equal(t, "Connection failed after 3 attempts", state.Error)
	assert.Equal(t, 3, state.RetryAttempt)
	assert.Equal(t, int64(3), calls.Load())

	// Terminal means quiescent: no timer keeps firing.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int64(3), calls.Load())
}

func TestController_ManualRefreshResetsTerminalState(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	var calls atomic.Int64
	var healthy atomic.Bool
	client.EXPECT().DashboardSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, symbol string) (*models.DashboardSnapshot, error) {
			calls.Add(1)
			if healthy.Load() {
				return &models.DashboardSnapshot{Status: "success", Symbol: symbol}, nil
			}
			return nil, &models.TransportError{Err: assert.AnError}
		},
	).AnyTimes()
	client.EXPECT().OIDetails(gomock.Any(), gomock.Any()).Return(
		&models.OIDetails{Status: "success"}, nil,
	).AnyTimes()
	client.EXPECT().ProAnalysis(gomock.Any(), gomock.Any()).Return(
		&models.ProAnalysis{Status: "success"}, nil,
	).AnyTimes()

	c, session := newTestController(t, client)

	c.refreshSnapshot(triggerManual)
	require.Eventually(t, func() bool {
		return strings.Contains(session.Stream(models.StreamSnapshot).Error, "failed after")
	}, 2*time.Second, 5*time.Millisecond)

	// Backend recovers; a manual action restarts the stream cleanly.
	healthy.Store(true)
	c.ManualRefresh()

	waitForData(t, session, models.StreamSnapshot)
	state := session.Stream(models.StreamSnapshot)
	assert.Empty(t, state.Error)
	assert.Zero(t, state.RetryAttempt)
}

func TestController_InFlightTriggerIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	block := make(chan struct{})
	var calls atomic.Int64
	client.EXPECT().DashboardSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, symbol string) (*models.DashboardSnapshot, error) {
			calls.Add(1)
			<-block
			return &models.DashboardSnapshot{Status: "success", Symbol: symbol}, nil
		},
	).AnyTimes()
	client.EXPECT().OIDetails(gomock.Any(), gomock.Any()).Return(
		&models.OIDetails{Status: "success"}, nil,
	).AnyTimes()
	client.EXPECT().ProAnalysis(gomock.Any(), gomock.Any()).Return(
		&models.ProAnalysis{Status: "success"}, nil,
	).AnyTimes()

	c, _ := newTestController(t, client)

	c.refreshSnapshot(triggerManual)
	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// Colliding triggers while the fetch is stuck are dropped, not queued.
	c.ManualRefresh()
	c.ManualRefresh()
	assert.Equal(t, int64(1), calls.Load())

	close(block)
	require.Eventually(t, func() bool {
		return !c.inflight[models.StreamSnapshot].Load()
	}, time.Second, 5*time.Millisecond)

	// Exactly one fetch ran for the whole burst.
	assert.Equal(t, int64(1), calls.Load())
}

func TestController_ChangeSymbol(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)
	expectHealthyBackend(client)

	c, session := newTestController(t, client)

	require.Error(t, c.ChangeSymbol("DOGECOIN"))
	assert.Equal(t, models.SymbolNifty, session.Symbol())

	require.NoError(t, c.ChangeSymbol(models.SymbolBankNifty))
	assert.Equal(t, models.SymbolBankNifty, session.Symbol())

	waitForData(t, session, models.StreamSnapshot)
	payload := session.Stream(models.StreamSnapshot).Data.(*SnapshotPayload)
	assert.Equal(t, models.SymbolBankNifty, payload.Snapshot.Symbol)
}

func TestController_ProAnalysisFailureIsNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	client.EXPECT().DashboardSnapshot(gomock.Any(), gomock.Any()).Return(
		&models.DashboardSnapshot{Status: "success", Symbol: models.SymbolNifty}, nil,
	).AnyTimes()
	client.EXPECT().OIDetails(gomock.Any(), gomock.Any()).Return(
		&models.OIDetails{Status: "success"}, nil,
	).AnyTimes()
	client.EXPECT().ProAnalysis(gomock.Any(), gomock.Any()).Return(
		nil, &models.UpstreamError{StatusCode: 500},
	).AnyTimes()

	c, session := newTestController(t, client)
	c.refreshSnapshot(triggerManual)

	waitForData(t, session, models.StreamSnapshot)
	assert.Empty(t, session.Stream(models.StreamSnapshot).Error)

	require.Eventually(t, func() bool {
		return session.Stream(models.StreamProAnalysis).Error != ""
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Advanced analysis unavailable", session.Stream(models.StreamProAnalysis).Error)
}

func TestController_SearchServedFromLoadedScreener(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)
	expectHealthyBackend(client)
	// No StockDetail expectation: a hit in the loaded list must not fetch.

	c, session := newTestController(t, client)
	c.RefreshScreener()
	waitForData(t, session, models.StreamScreener)

	c.Search("reliance", true)

	item, ok := session.Stream(models.StreamStockDetail).Data.(*models.ScreenerItem)
	require.True(t, ok)
	assert.Equal(t, "RELIANCE", item.Symbol)
}

func TestController_SearchFetchesUnknownSymbol(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	client.EXPECT().StockDetail(gomock.Any(), "HDFCBANK").Return(
		&models.ScreenerItem{Symbol: "HDFCBANK", Score: 7.5, Recommendation: "BUY"}, nil,
	)

	c, session := newTestController(t, client)
	c.Search("hdfcbank", true)

	waitForData(t, session, models.StreamStockDetail)
	item := session.Stream(models.StreamStockDetail).Data.(*models.ScreenerItem)
	assert.Equal(t, "HDFCBANK", item.Symbol)
}

func TestController_SearchNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	client.EXPECT().StockDetail(gomock.Any(), "NOSUCH").Return(
		nil, &models.UpstreamError{StatusCode: 404},
	)

	c, session := newTestController(t, client)
	c.Search("NOSUCH", true)

	require.Eventually(t, func() bool {
		return session.Stream(models.StreamStockDetail).Error != ""
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Stock NOSUCH not found", session.Stream(models.StreamStockDetail).Error)
}

func TestController_SearchDebouncesTypingBurst(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)

	var calls atomic.Int64
	client.EXPECT().StockDetail(gomock.Any(), "RELIANCE").DoAndReturn(
		func(ctx context.Context, symbol string) (*models.ScreenerItem, error) {
			calls.Add(1)
			return &models.ScreenerItem{Symbol: symbol}, nil
		},
	)

	c, session := newTestController(t, client)

	c.Search("REL", false)
	c.Search("RELI", false)
	c.Search("RELIANCE", false)

	waitForData(t, session, models.StreamStockDetail)
	assert.Equal(t, int64(1), calls.Load())
}

func TestController_ScreenerTabDrivesSubpoll(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)
	expectHealthyBackend(client)
	client.EXPECT().LivePrices(gomock.Any(), gomock.Any()).Return(
		[]models.LivePrice{{Symbol: "RELIANCE", Price: 2891}}, nil,
	).AnyTimes()

	c, session := newTestController(t, client)
	c.RefreshScreener()
	waitForData(t, session, models.StreamScreener)

	c.ChangeTab(models.TabScreener)
	assert.True(t, c.SubpollRunning())

	c.ChangeTab(models.TabDashboard)
	assert.False(t, c.SubpollRunning())
}

func TestController_HiddenStopsSubpollVisibleRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)
	expectHealthyBackend(client)
	client.EXPECT().LivePrices(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	c, session := newTestController(t, client)
	c.RefreshScreener()
	waitForData(t, session, models.StreamScreener)
	c.ChangeTab(models.TabScreener)
	require.True(t, c.SubpollRunning())

	c.VisibilityChanged(false)
	assert.False(t, c.SubpollRunning())

	c.VisibilityChanged(true)
	assert.True(t, c.SubpollRunning())
	waitForData(t, session, models.StreamSnapshot)
}

func TestController_ChangeFilterReloadsScreener(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMarketClient(ctrl)
	expectHealthyBackend(client)

	c, session := newTestController(t, client)

	c.ChangeFilter("oversold")
	waitForData(t, session, models.StreamScreener)

	list := session.Stream(models.StreamScreener).Data.(*models.ScreenerList)
	assert.Equal(t, "oversold", list.Filter)
	assert.Equal(t, "oversold", session.Filter())
}
