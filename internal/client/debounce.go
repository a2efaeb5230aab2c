package client

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// MinSearchLength is the shortest trimmed query worth sending.
const MinSearchLength = 2

type timer interface {
	Stop() bool
}

// Debouncer calls fn with the latest input once no new input arrived for
// the configured delay. Settled queries shorter than MinSearchLength are
// dropped.
type Debouncer struct {
	delay     time.Duration
	fn        func(query string)
	afterFunc func(time.Duration, func()) timer

	mu      sync.Mutex
	pending timer
	seq     int
}

func NewDebouncer(delay time.Duration, fn func(query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &Debouncer{
		delay: delay,
		fn:    fn,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Input records a keystroke's worth of query text.
func (d *Debouncer) Input(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = d.afterFunc(d.delay, func() { d.fire(seq, query) })
}

func (d *Debouncer) fire(seq int, query string) {
	d.mu.Lock()
	stale := seq != d.seq
	if !stale {
		d.pending = nil
	}
	d.mu.Unlock()
	if stale {
		return
	}

	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinSearchLength {
		return
	}
	d.fn(q)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}
