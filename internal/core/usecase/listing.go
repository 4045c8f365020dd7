package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/observability/metrics"
)

// ListSnapshot is one consistent view of a list resource: the items last
// successfully fetched, whether a refresh is running, and the failure of
// the most recent refresh if it had one.
type ListSnapshot[T any] struct {
	Items   []T
	Loading bool
	Err     *domain.ErrorInfo
	Source  domain.ListSource
}

// ListResource owns one refreshable collection. Overlapping refreshes are
// resolved last-issued-wins: a stale response never overwrites the state
// installed by a newer request, no matter the arrival order.
type ListResource[T any] struct {
	name    string
	fetch   func(context.Context) (domain.Collection[T], error)
	log     *slog.Logger
	metrics *metrics.ClientMetrics

	mu         sync.Mutex
	items      []T
	source     domain.ListSource
	err        *domain.ErrorInfo
	generation uint64
	inFlight   int
	closed     bool
}

func NewListResource[T any](name string, fetch func(context.Context) (domain.Collection[T], error), log *slog.Logger, m *metrics.ClientMetrics) *ListResource[T] {
	if log == nil {
		log = slog.Default()
	}
	return &ListResource[T]{
		name:    name,
		fetch:   fetch,
		log:     log,
		metrics: m,
		items:   []T{},
		source:  domain.SourceArray,
	}
}

// Refresh runs one fetch to completion and installs the outcome unless a
// newer refresh was issued while this one was in flight, or the resource
// was closed. A failed refresh keeps the previously shown items.
func (r *ListResource[T]) Refresh(ctx context.Context) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.generation++
	issued := r.generation
	r.inFlight++
	r.err = nil
	r.mu.Unlock()

	collection, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--
	if r.closed || issued != r.generation {
		return
	}
	if err != nil {
		info := domain.ErrorInfoFrom(err)
		r.err = &info
		r.log.Warn("list_refresh_failed", "collection", r.name, "origin", string(info.Origin))
		return
	}
	items := collection.Items
	if items == nil {
		items = []T{}
	}
	r.items = items
	r.source = collection.Source
	r.err = nil
	r.metrics.RecordListRefresh(serviceName, r.name, string(collection.Source))
}

func (r *ListResource[T]) Snapshot() ListSnapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]T, len(r.items))
	copy(items, r.items)

	snapshot := ListSnapshot[T]{
		Items:   items,
		Loading: r.inFlight > 0,
		Source:  r.source,
	}
	if r.err != nil {
		errCopy := *r.err
		snapshot.Err = &errCopy
	}
	return snapshot
}

// Close suppresses every refresh still in flight; their resolutions are
// discarded instead of touching state a consumer no longer watches.
func (r *ListResource[T]) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
