package lifecycle

import (
	"context"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Repo defines persistence for lifecycle entries.
type Repo interface {
	// Open returns the contract's open entry, or ErrNotFound.
	Open(ctx context.Context, scope tenant.Scope, contractID string) (Entry, error)
	// Close completes the given entry at the given instant, recording its
	// duration.
	Close(ctx context.Context, scope tenant.Scope, entryID string, at time.Time) error
	Create(ctx context.Context, scope tenant.Scope, entry Entry) error
	ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]Entry, error)
}
