package live

import (
	"context"
	"testing"
	"time"
)

// countingView signals every completed refresh on a channel.
type countingView struct {
	refreshed chan struct{}
}

func newCountingView() *countingView {
	return &countingView{refreshed: make(chan struct{}, 16)}
}

func (v *countingView) Refresh(ctx context.Context) error {
	v.refreshed <- struct{}{}
	return nil
}

func (v *countingView) wait(t *testing.T) {
	t.Helper()
	select {
	case <-v.refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh")
	}
}

func TestSynchronizerRefreshesAllBoundViews(t *testing.T) {
	bus := NewMemoryBus()
	syncer := NewSynchronizer(bus)

	detailView := newCountingView()
	listView := newCountingView()

	cancelDetail := syncer.Bind(detailView, DetailScopes("c1")...)
	defer cancelDetail()
	cancelList := syncer.Bind(listView, ListScopes()...)
	defer cancelList()

	// Both views populate once on bind.
	detailView.wait(t)
	listView.wait(t)

	// A note lands on c1: the detail view must re-fetch.
	bus.Publish(Event{Table: TableNotes, ContractID: "c1", Op: OpInsert})
	detailView.wait(t)

	// A contract row changes: the list view must re-fetch.
	bus.Publish(Event{Table: TableContracts, ContractID: "c9", Op: OpUpdate})
	listView.wait(t)
}

func TestSynchronizerCancelReleasesSubscriptions(t *testing.T) {
	bus := NewMemoryBus()
	syncer := NewSynchronizer(bus)

	view := newCountingView()
	cancel := syncer.Bind(view, DetailScopes("c1")...)
	view.wait(t)

	if bus.SubscriberCount() == 0 {
		t.Fatal("expected live subscriptions while bound")
	}

	cancel()
	cancel() // safe to call twice

	if got := bus.SubscriberCount(); got != 0 {
		t.Fatalf("expected all subscriptions released, %d remain", got)
	}

	// Events after cancel must not trigger refreshes.
	bus.Publish(Event{Table: TableNotes, ContractID: "c1", Op: OpInsert})
	select {
	case <-view.refreshed:
		t.Fatal("cancelled view must not refresh")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSynchronizerCoalescesBursts(t *testing.T) {
	bus := NewMemoryBus()
	syncer := NewSynchronizer(bus)

	// Block the first refresh so a burst of notifications piles up behind it.
	gate := make(chan struct{})
	refreshes := make(chan struct{}, 64)
	view := ViewFunc(func(ctx context.Context) error {
		<-gate
		refreshes <- struct{}{}
		return nil
	})

	cancel := syncer.Bind(view, ListScopes()...)
	defer cancel()

	for i := 0; i < 20; i++ {
		bus.Publish(Event{Table: TableContracts, ContractID: "c1", Op: OpUpdate})
	}
	close(gate)

	// Initial refresh plus at most one coalesced pending refresh.
	deadline := time.After(2 * time.Second)
	count := 0
	for done := false; !done; {
		select {
		case <-refreshes:
			count++
		case <-time.After(100 * time.Millisecond):
			done = true
		case <-deadline:
			done = true
		}
	}
	if count < 1 || count > 2 {
		t.Fatalf("expected 1 or 2 refreshes for a burst, got %d", count)
	}
}
