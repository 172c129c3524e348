package entities

import (
	"context"
	"sort"
	"sync"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// MemoryRepo stores extraction passes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	byContract map[string][]Extraction
	orgByRow   map[string]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byContract: make(map[string][]Extraction),
		orgByRow:   make(map[string]string),
	}
}

// Create stores the extraction pass.
func (r *MemoryRepo) Create(ctx context.Context, scope tenant.Scope, extraction Extraction) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byContract[extraction.ContractID] = append(r.byContract[extraction.ContractID], extraction)
	r.orgByRow[extraction.ID] = scope.OrgID
	return nil
}

// ListByContract returns all passes for a contract, newest first.
func (r *MemoryRepo) ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]Extraction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Extraction
	for _, extraction := range r.byContract[contractID] {
		if r.orgByRow[extraction.ID] != scope.OrgID {
			continue
		}
		out = append(out, extraction)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AnalyzedAt.After(out[j].AnalyzedAt)
	})
	return out, nil
}

// LatestByContract returns the most recent pass for a contract.
func (r *MemoryRepo) LatestByContract(ctx context.Context, scope tenant.Scope, contractID string) (Extraction, error) {
	all, err := r.ListByContract(ctx, scope, contractID)
	if err != nil {
		return Extraction{}, err
	}
	if len(all) == 0 {
		return Extraction{}, ErrNotFound
	}
	return all[0], nil
}

var _ Repo = (*MemoryRepo)(nil)
