package syncctl

import (
	"sync"

	"github.com/emailid501-ux/optionsense-app/internal/models"
)

// Session owns all mutable per-instance state: active symbol, tab, filter,
// and the per-stream state feed. It is mutated only by the controller;
// Presentation reads copy-out snapshots.
type Session struct {
	mu        sync.RWMutex
	symbol    string
	tab       string
	filter    string
	streams   map[models.Stream]models.StreamState
	listeners []func(models.SessionSnapshot)
}

// NewSession creates a session with the initial symbol, tab and filter.
func NewSession(symbol, tab, filter string) *Session {
	return &Session{
		symbol:  symbol,
		tab:     tab,
		filter:  filter,
		streams: make(map[models.Stream]models.StreamState),
	}
}

// OnChange registers a listener invoked with a fresh snapshot after every
// mutation. Listeners must not call back into the session.
func (s *Session) OnChange(fn func(models.SessionSnapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy-out view safe to read without locks.
func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.SessionSnapshot {
	streams := make(map[models.Stream]models.StreamState, len(s.streams))
	for name, state := range s.streams {
		streams[name] = state
	}
	return models.SessionSnapshot{
		Symbol:  s.symbol,
		Tab:     s.tab,
		Filter:  s.filter,
		Streams: streams,
	}
}

// Symbol returns the active symbol.
func (s *Session) Symbol() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symbol
}

// Tab returns the active tab.
func (s *Session) Tab() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// Filter returns the active screener filter.
func (s *Session) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetSymbol updates the active symbol.
func (s *Session) SetSymbol(symbol string) {
	s.mu.Lock()
	s.symbol = symbol
	s.notifyLocked()
}

// SetTab updates the active tab.
func (s *Session) SetTab(tab string) {
	s.mu.Lock()
	s.tab = tab
	s.notifyLocked()
}

// SetFilter updates the active screener filter.
func (s *Session) SetFilter(filter string) {
	s.mu.Lock()
	s.filter = filter
	s.notifyLocked()
}

// Stream returns the current state of one stream.
func (s *Session) Stream(name models.Stream) models.StreamState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streams[name]
}

// SetLoading marks a stream as loading, keeping previously loaded data
// visible.
func (s *Session) SetLoading(name models.Stream) {
	s.mu.Lock()
	state := s.streams[name]
	state.Loading = true
	s.streams[name] = state
	s.notifyLocked()
}

// SetData records a successful fetch: data present, not loading, no error.
func (s *Session) SetData(name models.Stream, data interface{}) {
	s.mu.Lock()
	s.streams[name] = models.StreamState{Data: data}
	s.notifyLocked()
}

// SetError records a failed fetch. Previously loaded data is retained so
// Presentation can keep showing the last good payload alongside the error.
func (s *Session) SetError(name models.Stream, message string, retryAttempt int) {
	s.mu.Lock()
	state := s.streams[name]
	state.Loading = false
	state.Error = message
	state.RetryAttempt = retryAttempt
	s.streams[name] = state
	s.notifyLocked()
}

// notifyLocked snapshots under the held lock, releases it, then fans out to
// listeners.
func (s *Session) notifyLocked() {
	snapshot := s.snapshotLocked()
	listeners := make([]func(models.SessionSnapshot), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
