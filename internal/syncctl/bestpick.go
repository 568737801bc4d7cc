package syncctl

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/interfaces"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// Composite score weights for best-pick ranking.
const (
	bestPickMinListSize  = 10
	bestPickMinBuyScore  = 7.0
	weightRSI            = 20.0
	weightMACD           = 15.0
	weightFib            = 10.0
	weightChange         = 10.0
	weightRiskReward2    = 15.0
	weightRiskReward15   = 10.0
	changeThresholdPct   = 1.0
)

// BestPicker surfaces the single highest composite-scored screener candidate
// once per session. The one-shot latch prevents repeat surfacing even if the
// list reloads.
type BestPicker struct {
	notifier interfaces.Notifier
	logger   *zap.Logger
	shown    atomic.Bool
}

// NewBestPicker creates a best-pick ranker over the given notifier.
func NewBestPicker(notifier interfaces.Notifier, logger *zap.Logger) *BestPicker {
	return &BestPicker{
		notifier: notifier,
		logger:   logger,
	}
}

// Shown reports whether the pick has already been surfaced this session.
func (b *BestPicker) Shown() bool {
	return b.shown.Load()
}

// Evaluate ranks the list and surfaces the top candidate. It acts only on
// the first sufficiently large list of the session and returns the pick, or
// nil when no evaluation happened.
func (b *BestPicker) Evaluate(stocks []models.ScreenerItem) *models.ScreenerItem {
	if len(stocks) <= bestPickMinListSize {
		return nil
	}
	if !b.shown.CompareAndSwap(false, true) {
		return nil
	}

	candidates := make([]models.ScreenerItem, 0, len(stocks))
	for _, s := range stocks {
		if s.IsBuyRated() && s.Score >= bestPickMinBuyScore {
			candidates = append(candidates, s)
		}
	}
	// No qualified buy: rank everything by base score instead.
	if len(candidates) == 0 {
		candidates = stocks
	}

	best := candidates[0]
	bestScore := CompositeScore(&best)
	for _, s := range candidates[1:] {
		if score := CompositeScore(&s); score > bestScore {
			best = s
			bestScore = score
		}
	}

	b.logger.Info("Best pick selected",
		zap.String("symbol", best.Symbol),
		zap.Float64("composite", bestScore),
		zap.Float64("score", best.Score),
		zap.String("recommendation", best.Recommendation))

	if err := b.notifier.Show(interfaces.Notification{
		Title: "Today's Best Pick",
		Body:  fmt.Sprintf("%s: %s (score %.1f)", best.Symbol, best.Recommendation, best.Score),
		Icon:  "/icon-192.png",
		URL:   "/stock/" + best.Symbol,
	}); err != nil {
		b.logger.Warn("Failed to surface best pick", zap.String("symbol", best.Symbol), zap.Error(err))
	}

	return &best
}

// CompositeScore computes the ranking score: base recommendation score
// scaled by 10, adjusted by fixed weights for momentum, trend confirmation,
// retracement zone, short-term change magnitude and risk/reward ratio.
func CompositeScore(s *models.ScreenerItem) float64 {
	score := s.Score * 10

	switch s.Signals.RSI {
	case "OVERSOLD":
		score += weightRSI
	case "OVERBOUGHT":
		score -= weightRSI
	}

	switch s.Signals.MACD {
	case "BULLISH":
		score += weightMACD
	case "BEARISH":
		score -= weightMACD
	}

	switch s.Signals.Fib {
	case "BULLISH":
		score += weightFib
	case "BEARISH":
		score -= weightFib
	}

	if s.ChangePct > changeThresholdPct {
		score += weightChange
	} else if s.ChangePct < -changeThresholdPct {
		score -= weightChange
	}

	rr := parseRiskReward(s.Levels.RiskReward)
	if rr >= 2 {
		score += weightRiskReward2
	} else if rr >= 1.5 {
		score += weightRiskReward15
	}

	return score
}

// parseRiskReward extracts the reward side of a "1:N" ratio. Anything
// unparseable counts as zero.
func parseRiskReward(ratio string) float64 {
	parts := strings.SplitN(ratio, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	reward, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0
	}
	return reward
}
