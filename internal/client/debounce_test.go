package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

func manualDebouncer(fn func(string)) (*Debouncer, *[]*fakeTimer) {
	var timers []*fakeTimer
	d := NewDebouncer(time.Second, fn)
	d.afterFunc = func(_ time.Duration, f func()) timer {
		t := &fakeTimer{fn: f}
		timers = append(timers, t)
		return t
	}
	return d, &timers
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	var calls []string
	d, timers := manualDebouncer(func(q string) { calls = append(calls, q) })

	for _, q := range []string{"j", "ja", "jav", "java"} {
		d.Input(q)
	}

	// only the last timer is live; earlier ones were stopped
	for _, tm := range (*timers)[:3] {
		assert.True(t, tm.stopped)
		tm.fn()
	}
	(*timers)[3].fn()

	assert.Equal(t, []string{"java"}, calls)
}

func TestDebouncerDropsShortQueries(t *testing.T) {
	var calls []string
	d, timers := manualDebouncer(func(q string) { calls = append(calls, q) })

	d.Input("  j ")
	(*timers)[0].fn()
	d.Input(" go ")
	(*timers)[1].fn()

	assert.Equal(t, []string{"go"}, calls)
}

func TestDebouncerStop(t *testing.T) {
	var calls []string
	d, timers := manualDebouncer(func(q string) { calls = append(calls, q) })

	d.Input("java")
	d.Stop()
	(*timers)[0].fn()

	assert.Empty(t, calls)
}

func TestDebouncerRealTimer(t *testing.T) {
	got := make(chan string, 4)
	d := NewDebouncer(20*time.Millisecond, func(q string) { got <- q })

	d.Input("ru")
	d.Input("rus")
	d.Input("rust")

	select {
	case q := <-got:
		assert.Equal(t, "rust", q)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
	assert.Never(t, func() bool { return len(got) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}
