// Package monitor derives stock alerts from the product listing by
// polling; there is no push channel from the server. Alerts keep a
// deterministic id per (product, severity) pair so repeated polls of the
// same condition never duplicate, and dismissals hold until the product
// crosses into a different severity bucket.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gemlight/internal/domain"
)

// Default poll intervals: privileged (authenticated/admin) contexts poll
// more aggressively.
const (
	DefaultPrivilegedInterval = 15 * time.Second
	DefaultInterval           = 30 * time.Second
)

// Fetcher supplies the authoritative product list, typically the api
// client's FetchProducts.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

type Option func(*Monitor)

// WithOnError installs a callback for failed polls. Poll failures never
// clear existing alerts and never stop the loop.
func WithOnError(fn func(error)) Option {
	return func(m *Monitor) { m.onError = fn }
}

// WithOnChange installs a callback invoked (outside the lock) after a poll
// changes the displayed alert set.
func WithOnChange(fn func([]Alert)) Option {
	return func(m *Monitor) { m.onChange = fn }
}

type Monitor struct {
	fetch    Fetcher
	onError  func(error)
	onChange func([]Alert)

	seq atomic.Uint64 // poll sequence; taken before the fetch starts

	mu          sync.Mutex
	alerts      []Alert // insertion order
	dismissed   map[string]struct{}
	lastApplied uint64
	handle      *Handle
}

func New(fetch Fetcher, opts ...Option) *Monitor {
	m := &Monitor{fetch: fetch, dismissed: map[string]struct{}{}}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Handle owns the polling goroutine; Stop is idempotent and returns once
// the loop has exited.
type Handle struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (h *Handle) Stop() {
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

// Start launches the polling loop: an immediate poll, then one per tick.
// A monitor has at most one active timer; starting again stops the
// previous loop first.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}

	m.mu.Lock()
	prev := m.handle
	m.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	h := &Handle{stop: make(chan struct{}), done: make(chan struct{})}
	m.mu.Lock()
	m.handle = h
	m.mu.Unlock()

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.pollOnce(ctx)
		for {
			select {
			case <-ticker.C:
				m.pollOnce(ctx)
			case <-h.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return h
}

func (m *Monitor) pollOnce(ctx context.Context) {
	if err := m.Refresh(ctx); err != nil && m.onError != nil {
		m.onError(err)
	}
}

// Refresh forces an immediate out-of-cycle poll. Polls are sequenced: the
// number is taken before the fetch starts, and results apply only if no
// later-started poll has landed first, so a slow stale response can never
// clobber fresher data.
func (m *Monitor) Refresh(ctx context.Context) error {
	seq := m.seq.Add(1)
	products, err := m.fetch.FetchProducts(ctx)
	if err != nil {
		return err
	}
	m.apply(seq, products)
	return nil
}

func (m *Monitor) apply(seq uint64, products []domain.Product) {
	m.mu.Lock()
	if seq <= m.lastApplied {
		m.mu.Unlock()
		return
	}
	m.lastApplied = seq
	now := time.Now()

	derived := make(map[string]Alert, len(products))
	for _, p := range products {
		sev, ok := SeverityFor(p.Stock)
		if !ok {
			continue
		}
		id := AlertID(p.ID, sev)
		derived[id] = Alert{
			ID:           id,
			ProductID:    p.ID,
			ProductTitle: p.Title,
			CurrentStock: p.Stock,
			Threshold:    ThresholdFor(sev),
			Severity:     sev,
			LastUpdated:  now,
		}
	}

	// A dismissal lives exactly as long as its condition: once the id
	// leaves the derived set the product changed buckets, and a later
	// return to this bucket should alert again.
	for id := range m.dismissed {
		if _, ok := derived[id]; !ok {
			delete(m.dismissed, id)
		}
	}

	next := make([]Alert, 0, len(derived))
	seen := make(map[string]struct{}, len(derived))
	for _, a := range m.alerts {
		if fresh, ok := derived[a.ID]; ok {
			next = append(next, fresh)
			seen[a.ID] = struct{}{}
		}
	}
	for _, p := range products {
		sev, ok := SeverityFor(p.Stock)
		if !ok {
			continue
		}
		id := AlertID(p.ID, sev)
		if _, dup := seen[id]; dup {
			continue
		}
		if _, dis := m.dismissed[id]; dis {
			continue
		}
		next = append(next, derived[id])
		seen[id] = struct{}{}
	}

	changed := !equalIDs(m.alerts, next)
	m.alerts = next

	// An empty next is still a change worth reporting (full recovery), so
	// fire on the flag rather than on a non-empty snapshot.
	fire := changed && m.onChange != nil
	var snapshot []Alert
	if fire {
		snapshot = make([]Alert, len(next))
		copy(snapshot, next)
	}
	m.mu.Unlock()

	if fire {
		m.onChange(snapshot)
	}
}

func equalIDs(a, b []Alert) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].CurrentStock != b[i].CurrentStock {
			return false
		}
	}
	return true
}

// Dismiss removes one alert from the displayed set and suppresses its id
// until the underlying condition changes buckets. Dismissing an unknown
// id is a no-op.
func (m *Monitor) Dismiss(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			m.dismissed[id] = struct{}{}
			return
		}
	}
}

// Alerts returns the displayed set in insertion order.
func (m *Monitor) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Stats{Total: len(m.alerts)}
	for _, a := range m.alerts {
		switch a.Severity {
		case SeverityLow:
			st.Low++
		case SeverityCritical:
			st.Critical++
		case SeverityOut:
			st.Out++
		}
	}
	return st
}
