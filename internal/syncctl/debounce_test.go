package syncctl

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects debounced evaluations.
type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)
	defer d.Stop()

	// A typing burst: only the final value survives.
	d.Fire("REL")
	d.Fire("RELI")
	d.Fire("RELIANCE")

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	values := rec.snapshot()
	require.Len(t, values, 1)
	assert.Equal(t, "RELIANCE", values[0])

	// Nothing else fires afterwards.
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestDebouncer_FireNowBypassesWait(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(time.Hour, rec.record)
	defer d.Stop()

	d.Fire("pending")
	d.FireNow("RELIANCE")

	values := rec.snapshot()
	require.Len(t, values, 1)
	assert.Equal(t, "RELIANCE", values[0])

	// The pending evaluation was cancelled, not deferred.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Fire("cancelled")
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_SeparateBurstsEachEvaluate(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Fire("TCS")
	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	d.Fire("INFY")
	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"TCS", "INFY"}, rec.snapshot())
}
