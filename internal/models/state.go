package models

// Stream names the independently scheduled fetch categories tracked by the
// sync controller.
type Stream string

const (
	StreamSnapshot    Stream = "snapshot"     // quote + option-chain summary
	StreamScreener    Stream = "screener"     // bulk recommendation list
	StreamProAnalysis Stream = "pro_analysis" // advanced-indicator overlay
	StreamStockDetail Stream = "stock_detail" // on-demand single-symbol lookup
	StreamLivePrices  Stream = "live_prices"  // high-frequency price sub-poll
)

// Tabs the presentation layer can show. Only TabScreener drives the live
// price sub-poller.
const (
	TabDashboard = "dashboard"
	TabScreener  = "screener"
	TabStrategy  = "strategy"
)

// StreamState is the per-stream slice of the state feed. Absence of data and
// presence of error are always represented explicitly and distinctly from
// loading.
type StreamState struct {
	Data         interface{} `json:"data"`
	Loading      bool        `json:"loading"`
	Error        string      `json:"error,omitempty"`
	RetryAttempt int         `json:"retry_attempt,omitempty"`
}

// SessionSnapshot is a copy-out view of the controller's session state,
// safe for Presentation to read without holding any controller lock.
type SessionSnapshot struct {
	Symbol  string                 `json:"symbol"`
	Tab     string                 `json:"tab"`
	Filter  string                 `json:"filter"`
	Streams map[Stream]StreamState `json:"streams"`
}
