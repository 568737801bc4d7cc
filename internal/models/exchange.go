package models

import "time"

// CachedExchange is one stored HTTP exchange: the response captured for a
// request identity (method + full URL including query string).
type CachedExchange struct {
	Status     int                 `json:"status"`
	Header     map[string][]string `json:"header,omitempty"`
	Body       []byte              `json:"body"`
	CapturedAt int64               `json:"captured_at"`
}

// Age returns how long ago the exchange was captured.
func (e *CachedExchange) Age() time.Duration {
	return time.Since(time.Unix(e.CapturedAt, 0))
}
