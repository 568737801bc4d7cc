package models

// Index symbols accepted by the dashboard routes.
const (
	SymbolNifty     = "NIFTY"
	SymbolBankNifty = "BANKNIFTY"
)

// VWAPSignal reports the price position relative to VWAP.
type VWAPSignal struct {
	Value     float64 `json:"value"`
	IsBullish bool    `json:"is_bullish"`
	Message   string  `json:"message"`
}

// PCRData is the put-call ratio with its short-term trend.
type PCRData struct {
	Value float64 `json:"value"`
	Trend string  `json:"trend"` // RISING, FALLING, STABLE
}

// SentimentData is the composite market sentiment score (0-10).
type SentimentData struct {
	Score int    `json:"score"`
	Label string `json:"label"` // STRONG BUY, STRONG SELL, NEUTRAL
	Color string `json:"color"`
}

// OIAlert carries the open-interest alert banner.
type OIAlert struct {
	Message string `json:"message"`
	BgColor string `json:"bg_color"`
}

// DashboardData is the payload section of a dashboard snapshot.
type DashboardData struct {
	Price          float64    `json:"price"`
	PriceChange    float64    `json:"price_change"`
	PriceChangePct float64    `json:"price_change_pct"`
	VWAPSignal     VWAPSignal `json:"vwap_signal"`
	PCR            PCRData    `json:"pcr"`
	Sentiment      SentimentData `json:"sentiment"`
	OIAlert        OIAlert    `json:"oi_alert"`
}

// DashboardSnapshot is the combined quote + sentiment response for an index.
type DashboardSnapshot struct {
	Status       string        `json:"status"`
	Symbol       string        `json:"symbol"`
	LastUpdated  string        `json:"last_updated"`
	MarketStatus string        `json:"market_status"` // OPEN, CLOSED
	Data         DashboardData `json:"data"`
}

// StrikeData is one strike row of the option-chain OI view.
type StrikeData struct {
	Strike      int    `json:"strike"`
	CEChange    int    `json:"ce_change"`
	PEChange    int    `json:"pe_change"`
	CEBarColor  string `json:"ce_bar_color"`
	PEBarColor  string `json:"pe_bar_color"`
	IsATM       bool   `json:"is_atm"`
}

// OIDetails is the option-chain summary: ATM strike plus surrounding strikes.
type OIDetails struct {
	Status    string       `json:"status"`
	Symbol    string       `json:"symbol"`
	ATMStrike int          `json:"atm_strike"`
	Strikes   []StrikeData `json:"strikes"`
}

// ScreenerSignals holds the technical indicator signals for one stock.
type ScreenerSignals struct {
	RSI  string `json:"rsi"`  // OVERSOLD, OVERBOUGHT, NEUTRAL
	MACD string `json:"macd"` // BULLISH, BEARISH, NEUTRAL
	Fib  string `json:"fib"`  // BULLISH, BEARISH, NEUTRAL
}

// TradeLevels holds the suggested entry/exit levels for one stock.
type TradeLevels struct {
	Entry      float64 `json:"entry"`
	Target     float64 `json:"target"`
	Stoploss   float64 `json:"stoploss"`
	RiskReward string  `json:"risk_reward"` // e.g. "1:2", "N/A"
}

// ScreenerItem is one ranked stock in the screener list. Score is on a
// 0-10 scale with BUY recommendations at 7 and above.
type ScreenerItem struct {
	Symbol         string          `json:"symbol"`
	Price          float64         `json:"price"`
	ChangePct      float64         `json:"change_pct"`
	Score          float64         `json:"score"`
	Recommendation string          `json:"recommendation"` // STRONG BUY, BUY, HOLD, SELL, STRONG SELL
	Signals        ScreenerSignals `json:"signals"`
	Levels         TradeLevels     `json:"levels"`
}

// ScreenerList is the bulk recommendation response for one filter.
type ScreenerList struct {
	Status string         `json:"status"`
	Filter string         `json:"filter"`
	Stocks []ScreenerItem `json:"stocks"`
}

// LivePrice is the minimal price-only refresh used by the sub-poller.
type LivePrice struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}

// ProAnalysis is the advanced-indicator overlay for an index, chained after
// the dashboard snapshot. Sections are deliberately opaque here; the core
// passes them through to Presentation.
type ProAnalysis struct {
	Status  string                 `json:"status"`
	Symbol  string                 `json:"symbol"`
	Verdict string                 `json:"verdict"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}

// IsBuyRated reports whether the item carries a BUY-family recommendation.
func (s *ScreenerItem) IsBuyRated() bool {
	return s.Recommendation == "BUY" || s.Recommendation == "STRONG BUY"
}
