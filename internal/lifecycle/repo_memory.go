package lifecycle

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// MemoryRepo stores lifecycle entries in memory and is safe for
// concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	byContract map[string][]Entry
	orgByRow   map[string]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byContract: make(map[string][]Entry),
		orgByRow:   make(map[string]string),
	}
}

// Open returns the contract's open entry.
func (r *MemoryRepo) Open(ctx context.Context, scope tenant.Scope, contractID string) (Entry, error) {
	if err := scope.Validate(); err != nil {
		return Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.byContract[contractID] {
		if r.orgByRow[entry.ID] != scope.OrgID {
			continue
		}
		if entry.CompletedAt == nil {
			return entry, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Close completes an entry and records its duration in seconds.
func (r *MemoryRepo) Close(ctx context.Context, scope tenant.Scope, entryID string, at time.Time) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.orgByRow[entryID] != scope.OrgID {
		return ErrNotFound
	}
	for contractID, entries := range r.byContract {
		for i, entry := range entries {
			if entry.ID != entryID || entry.CompletedAt != nil {
				continue
			}
			completed := at
			duration := int64(at.Sub(entry.StartedAt) / time.Second)
			entry.CompletedAt = &completed
			entry.DurationSeconds = &duration
			r.byContract[contractID][i] = entry
			return nil
		}
	}
	return ErrNotFound
}

// Create inserts a new entry.
func (r *MemoryRepo) Create(ctx context.Context, scope tenant.Scope, entry Entry) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byContract[entry.ContractID] = append(r.byContract[entry.ContractID], entry)
	r.orgByRow[entry.ID] = scope.OrgID
	return nil
}

// ListByContract returns all entries for a contract, oldest first.
func (r *MemoryRepo) ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]Entry, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, entry := range r.byContract[contractID] {
		if r.orgByRow[entry.ID] != scope.OrgID {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
