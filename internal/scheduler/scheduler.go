package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vitaflowd/vitaflow/internal/model"
)

// ReminderEvent is emitted when an untaken item's reminder time matches the
// current minute. Tag is the platform dedup key: item id plus the matched
// HH:MM, so the OS notification center collapses repeats within one minute
// but a different minute (or the same minute on another day) fires again.
type ReminderEvent struct {
	ItemID string
	Name   string
	Dosage string
	Notes  string
	At     string // matched wall-clock minute, "HH:MM"
	Tag    string
}

// Snapshot supplies a consistent copy of the live collection for one poll.
type Snapshot func() []model.Supplement

// Engine polls the wall clock once per interval and matches reminder times at
// minute resolution. It has two states: idle (not polling; notification
// permission absent) and armed (polling). Missed minutes are never caught up.
type Engine struct {
	mu       sync.Mutex
	snapshot Snapshot
	interval time.Duration
	now      func() time.Time
	out      chan ReminderEvent
	stopCh   chan struct{}
	doneCh   chan struct{}
	armed    bool
	started  bool
	stopped  bool
	dropped  uint64
}

type Option func(*Engine)

// WithInterval overrides the 60-second poll interval, mainly for tests.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithClock overrides the wall-clock source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(snapshot Snapshot, bufferSize int, opts ...Option) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	e := &Engine{
		snapshot: snapshot,
		interval: 60 * time.Second,
		now:      time.Now,
		out:      make(chan ReminderEvent, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) C() <-chan ReminderEvent {
	return e.out
}

// Arm transitions idle -> armed once notification permission is granted.
func (e *Engine) Arm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.armed = true
}

// Disarm transitions armed -> idle; the poll loop keeps ticking but emits
// nothing until re-armed.
func (e *Engine) Disarm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.armed = false
}

func (e *Engine) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.armed
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

// Stop cancels the poll loop and waits for it to exit. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Dropped counts events discarded because the consumer lagged.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.poll()
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) poll() {
	if !e.Armed() {
		return
	}
	for _, ev := range e.Due(e.now()) {
		select {
		case e.out <- ev:
		default:
			atomic.AddUint64(&e.dropped, 1)
		}
	}
}

// Due returns one event per untaken item whose reminder time equals the given
// moment's local HH:MM. Exposed for the poll loop and for tests.
func (e *Engine) Due(at time.Time) []ReminderEvent {
	current := at.Local().Format("15:04")
	items := e.snapshot()
	out := make([]ReminderEvent, 0, 2)
	for _, item := range items {
		if item.Taken || item.ReminderTime == "" || item.ReminderTime != current {
			continue
		}
		out = append(out, ReminderEvent{
			ItemID: item.ID,
			Name:   item.Name,
			Dosage: item.Dosage,
			Notes:  item.Notes,
			At:     current,
			Tag:    item.ID + "-" + current,
		})
	}
	return out
}
