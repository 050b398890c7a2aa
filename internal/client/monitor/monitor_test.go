package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemlight/internal/domain"
)

// fakeFetcher returns whatever product list the test installs, or fails
// on demand.
type fakeFetcher struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
}

func (f *fakeFetcher) set(products []domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
	f.err = nil
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFetcher) FetchProducts(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func prod(id string, stock int) domain.Product {
	return domain.Product{ID: id, Title: "Product " + id, Stock: stock}
}

func ids(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func TestRefreshDerivesAlerts(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2), prod("b", 7), prod("c", 50)})
	m := New(f)

	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []string{"a-critical", "b-low"}, ids(m.Alerts()))

	st := m.Stats()
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Critical)
	assert.Equal(t, 1, st.Low)
	assert.Equal(t, 0, st.Out)
}

func TestRepeatPollDoesNotDuplicate(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2)})
	m := New(f)

	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.Refresh(context.Background()))
	assert.Len(t, m.Alerts(), 1)
}

func TestSeverityTransitionReplacesAlert(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2)})
	m := New(f)
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []string{"a-critical"}, ids(m.Alerts()))

	// Sold out: the critical alert gives way to the out alert.
	f.set([]domain.Product{prod("a", 0)})
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []string{"a-out"}, ids(m.Alerts()))
}

func TestRecoveryClearsAlert(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 1)})
	m := New(f)
	require.NoError(t, m.Refresh(context.Background()))
	require.Len(t, m.Alerts(), 1)

	f.set([]domain.Product{prod("a", 25)})
	require.NoError(t, m.Refresh(context.Background()))
	assert.Empty(t, m.Alerts())
}

func TestDismissSuppressesUntilBucketChanges(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2)})
	m := New(f)
	require.NoError(t, m.Refresh(context.Background()))

	m.Dismiss("a-critical")
	assert.Empty(t, m.Alerts())

	// Same bucket on the next poll stays suppressed, even if the exact
	// stock moved within it.
	f.set([]domain.Product{prod("a", 1)})
	require.NoError(t, m.Refresh(context.Background()))
	assert.Empty(t, m.Alerts())

	// Bucket change forgets the dismissal; a later return re-alerts.
	f.set([]domain.Product{prod("a", 0)})
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []string{"a-out"}, ids(m.Alerts()))

	f.set([]domain.Product{prod("a", 2)})
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, []string{"a-critical"}, ids(m.Alerts()))
}

func TestDismissUnknownIDNoop(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2)})
	m := New(f)
	require.NoError(t, m.Refresh(context.Background()))

	m.Dismiss("nope-out")
	assert.Len(t, m.Alerts(), 1)
}

func TestInsertionOrderPreserved(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2)})
	m := New(f)
	require.NoError(t, m.Refresh(context.Background()))

	f.set([]domain.Product{prod("b", 1), prod("a", 2)})
	require.NoError(t, m.Refresh(context.Background()))

	// a alerted first, so it stays first even though b now sorts earlier
	// in the listing.
	assert.Equal(t, []string{"a-critical", "b-critical"}, ids(m.Alerts()))
}

func TestFailedPollKeepsAlerts(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 0)})
	var gotErr error
	m := New(f, WithOnError(func(err error) { gotErr = err }))
	require.NoError(t, m.Refresh(context.Background()))
	require.Len(t, m.Alerts(), 1)

	f.fail(errors.New("boom"))
	assert.Error(t, m.Refresh(context.Background()))
	assert.Len(t, m.Alerts(), 1)
	assert.Nil(t, gotErr) // onError fires from the poll loop, not Refresh
}

func TestStaleApplyDiscarded(t *testing.T) {
	f := &fakeFetcher{}
	m := New(f)

	// Poll 2 lands before poll 1: the older result must not clobber.
	m.apply(2, []domain.Product{prod("a", 0)})
	m.apply(1, []domain.Product{prod("a", 9)})

	alerts := m.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "a-out", alerts[0].ID)
	assert.Equal(t, 0, alerts[0].CurrentStock)
}

func TestStartPollsImmediatelyAndStops(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 3)})
	m := New(f)

	h := m.Start(context.Background(), time.Hour)
	defer h.Stop()

	deadline := time.After(2 * time.Second)
	for len(m.Alerts()) == 0 {
		select {
		case <-deadline:
			t.Fatal("no alert after immediate poll")
		case <-time.After(10 * time.Millisecond):
		}
	}

	h.Stop()
	h.Stop() // idempotent
}

func TestStartReplacesPreviousLoop(t *testing.T) {
	f := &fakeFetcher{}
	f.set(nil)
	m := New(f)

	h1 := m.Start(context.Background(), time.Hour)
	h2 := m.Start(context.Background(), time.Hour)
	defer h2.Stop()

	// The first handle's loop must already be gone.
	done := make(chan struct{})
	go func() { h1.Stop(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first loop did not stop")
	}
}

func TestOnChangeFiresOnTransitions(t *testing.T) {
	f := &fakeFetcher{}
	f.set([]domain.Product{prod("a", 2)})

	var mu sync.Mutex
	var calls [][]string
	m := New(f, WithOnChange(func(alerts []Alert) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, ids(alerts))
	}))

	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.Refresh(context.Background())) // no change, no call
	f.set([]domain.Product{prod("a", 0)})
	require.NoError(t, m.Refresh(context.Background()))

	// Full restock: the transition to an empty set must still notify, or
	// a consumer keeps rendering the last alerts forever.
	f.set([]domain.Product{prod("a", 50)})
	require.NoError(t, m.Refresh(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"a-critical"}, calls[0])
	assert.Equal(t, []string{"a-out"}, calls[1])
	assert.Empty(t, calls[2])
}
