package live

import (
	"context"
	"sync"

	"github.com/gitaufar/technoday-sub001/internal/shared/telemetry"
)

// View is a derived read model that can be recomputed from the stores.
// Refresh must be idempotent: notifications arrive at least once and in no
// particular order across tables.
type View interface {
	Refresh(ctx context.Context) error
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(ctx context.Context) error

func (f ViewFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Synchronizer binds views to bus scopes. On any matching notification the
// view is re-fetched in full (invalidate-and-refetch, no incremental
// patching). Tearing a binding down cancels its pending refreshes and
// releases its subscriptions.
type Synchronizer struct {
	Bus Bus
}

// NewSynchronizer constructs a Synchronizer on the given bus.
func NewSynchronizer(bus Bus) *Synchronizer {
	return &Synchronizer{Bus: bus}
}

// Bind subscribes the view to every scope and performs an initial refresh.
// The returned CancelFunc releases all subscriptions and stops any pending
// refresh; it never cancels writes already in flight elsewhere.
func (s *Synchronizer) Bind(view View, scopes ...Scope) CancelFunc {
	ctx, cancelCtx := context.WithCancel(context.Background())

	// Buffer of one coalesces redundant notifications into a single
	// pending refresh.
	kick := make(chan struct{}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-kick:
				if err := view.Refresh(ctx); err != nil && ctx.Err() == nil {
					telemetry.Error("live.refresh", map[string]any{"error": err.Error()})
				}
			}
		}
	}()

	handler := func(Event) {
		select {
		case kick <- struct{}{}:
		default:
		}
	}

	cancels := make([]CancelFunc, 0, len(scopes))
	for _, scope := range scopes {
		cancels = append(cancels, s.Bus.Subscribe(scope, handler))
	}

	// Initial population.
	handler(Event{})

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, cancel := range cancels {
				cancel()
			}
			cancelCtx()
			wg.Wait()
		})
	}
}

// DetailScopes returns the scopes a single-contract detail view listens on.
func DetailScopes(contractID string) []Scope {
	return []Scope{
		{Table: TableContracts, ContractID: contractID},
		{Table: TableEntities, ContractID: contractID},
		{Table: TableFindings, ContractID: contractID},
		{Table: TableNotes, ContractID: contractID},
	}
}

// ListScopes returns the scopes list and KPI views listen on: the whole
// contracts table, unscoped by id.
func ListScopes() []Scope {
	return []Scope{{Table: TableContracts}}
}
