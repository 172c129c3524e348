package risk

import (
	"context"
	"sort"
	"sync"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// MemoryRepo stores findings and audit rows in memory and is safe for
// concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	findings map[string][]Finding
	analyses map[string][]AnalysisRecord
	orgByRow map[string]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		findings: make(map[string][]Finding),
		analyses: make(map[string][]AnalysisRecord),
		orgByRow: make(map[string]string),
	}
}

// CreateFindings stores every finding from one pass.
func (r *MemoryRepo) CreateFindings(ctx context.Context, scope tenant.Scope, findings []Finding) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range findings {
		r.findings[f.ContractID] = append(r.findings[f.ContractID], f)
		r.orgByRow[f.ID] = scope.OrgID
	}
	return nil
}

// ListFindings returns all findings for a contract, newest first.
func (r *MemoryRepo) ListFindings(ctx context.Context, scope tenant.Scope, contractID string) ([]Finding, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Finding
	for _, f := range r.findings[contractID] {
		if r.orgByRow[f.ID] != scope.OrgID {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CreateAnalysis writes one audit row.
func (r *MemoryRepo) CreateAnalysis(ctx context.Context, scope tenant.Scope, record AnalysisRecord) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[record.ContractID] = append(r.analyses[record.ContractID], record)
	r.orgByRow[record.ID] = scope.OrgID
	return nil
}

// ListAnalyses returns the audit trail for a contract, newest first.
func (r *MemoryRepo) ListAnalyses(ctx context.Context, scope tenant.Scope, contractID string) ([]AnalysisRecord, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []AnalysisRecord
	for _, record := range r.analyses[contractID] {
		if r.orgByRow[record.ID] != scope.OrgID {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
