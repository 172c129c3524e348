package notes

import (
	"context"
	"sort"
	"sync"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// MemoryRepo stores notes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	byContract map[string][]LegalNote
	orgByRow   map[string]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byContract: make(map[string][]LegalNote),
		orgByRow:   make(map[string]string),
	}
}

// Create stores a note.
func (r *MemoryRepo) Create(ctx context.Context, scope tenant.Scope, note LegalNote) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byContract[note.ContractID] = append(r.byContract[note.ContractID], note)
	r.orgByRow[note.ID] = scope.OrgID
	return nil
}

// ListByContract returns all notes for a contract, newest first.
func (r *MemoryRepo) ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]LegalNote, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []LegalNote
	for _, note := range r.byContract[contractID] {
		if r.orgByRow[note.ID] != scope.OrgID {
			continue
		}
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
