package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/healytics/healytics-client/internal/core/domain"
)

func TestRefreshInstallsFetchedItems(t *testing.T) {
	resource := NewListResource("blogs", func(context.Context) (domain.Collection[domain.Blog], error) {
		return domain.Collection[domain.Blog]{
			Items:  []domain.Blog{{ID: 1}, {ID: 2}},
			Source: domain.SourcePaginated,
		}, nil
	}, nil, nil)

	resource.Refresh(context.Background())

	snapshot := resource.Snapshot()
	if snapshot.Loading {
		t.Fatalf("snapshot still loading after refresh returned")
	}
	if snapshot.Err != nil {
		t.Fatalf("unexpected error: %+v", snapshot.Err)
	}
	if len(snapshot.Items) != 2 || snapshot.Items[0].ID != 1 {
		t.Fatalf("items = %+v", snapshot.Items)
	}
	if snapshot.Source != domain.SourcePaginated {
		t.Fatalf("source = %s, want paginated", snapshot.Source)
	}
}

func TestFailedRefreshKeepsLastGoodItems(t *testing.T) {
	fail := false
	resource := NewListResource("blogs", func(context.Context) (domain.Collection[domain.Blog], error) {
		if fail {
			return domain.Collection[domain.Blog]{}, domain.WrapError(domain.ErrNetwork, "list blogs",
				domain.ErrorInfo{Message: domain.GenericFailureMessage, Origin: domain.OriginNetwork})
		}
		return domain.Collection[domain.Blog]{Items: []domain.Blog{{ID: 7}}, Source: domain.SourceArray}, nil
	}, nil, nil)

	resource.Refresh(context.Background())
	fail = true
	resource.Refresh(context.Background())

	snapshot := resource.Snapshot()
	if len(snapshot.Items) != 1 || snapshot.Items[0].ID != 7 {
		t.Fatalf("failure must keep last good items, got %+v", snapshot.Items)
	}
	if snapshot.Err == nil || snapshot.Err.Origin != domain.OriginNetwork {
		t.Fatalf("err = %+v, want network origin", snapshot.Err)
	}

	// A later success clears the failure.
	fail = false
	resource.Refresh(context.Background())
	if snapshot = resource.Snapshot(); snapshot.Err != nil {
		t.Fatalf("error must clear on the next successful refresh")
	}
}

func TestOverlappingRefreshesResolveLastIssuedWins(t *testing.T) {
	type fetchCall struct {
		id      int
		release chan struct{}
	}
	calls := make(chan fetchCall, 2)
	nextID := 0
	var mu sync.Mutex

	resource := NewListResource("history", func(context.Context) (domain.Collection[domain.PredictionRecord], error) {
		mu.Lock()
		nextID++
		id := nextID
		mu.Unlock()
		release := make(chan struct{})
		calls <- fetchCall{id: id, release: release}
		<-release
		return domain.Collection[domain.PredictionRecord]{
			Items:  []domain.PredictionRecord{{ID: id}},
			Source: domain.SourceArray,
		}, nil
	}, nil, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		resource.Refresh(context.Background())
	}()
	first := <-calls
	go func() {
		defer wg.Done()
		resource.Refresh(context.Background())
	}()
	second := <-calls

	// The newer refresh resolves first; the stale one lands afterwards
	// and must be discarded.
	close(second.release)
	close(first.release)
	wg.Wait()

	snapshot := resource.Snapshot()
	if snapshot.Loading {
		t.Fatalf("no refresh left in flight, snapshot still loading")
	}
	if len(snapshot.Items) != 1 || snapshot.Items[0].ID != second.id {
		t.Fatalf("stale refresh overwrote newer state: %+v", snapshot.Items)
	}
}

func TestCloseSuppressesLateResolutions(t *testing.T) {
	release := make(chan struct{})
	resource := NewListResource("blogs", func(context.Context) (domain.Collection[domain.Blog], error) {
		<-release
		return domain.Collection[domain.Blog]{Items: []domain.Blog{{ID: 1}}, Source: domain.SourceArray}, nil
	}, nil, nil)

	done := make(chan struct{})
	go func() {
		resource.Refresh(context.Background())
		close(done)
	}()

	resource.Close()
	close(release)
	<-done

	snapshot := resource.Snapshot()
	if len(snapshot.Items) != 0 {
		t.Fatalf("resolution after close must be discarded, got %+v", snapshot.Items)
	}

	// A refresh after close is a no-op, not a panic.
	resource.Refresh(context.Background())
}

func TestSnapshotIsACopy(t *testing.T) {
	resource := NewListResource("blogs", func(context.Context) (domain.Collection[domain.Blog], error) {
		return domain.Collection[domain.Blog]{Items: []domain.Blog{{ID: 1, Title: "original"}}, Source: domain.SourceArray}, nil
	}, nil, nil)
	resource.Refresh(context.Background())

	snapshot := resource.Snapshot()
	snapshot.Items[0].Title = "mutated"

	if got := resource.Snapshot().Items[0].Title; got != "original" {
		t.Fatalf("snapshot mutation leaked into the resource: %q", got)
	}
}
