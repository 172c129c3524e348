package contracts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// MemoryRepo stores contracts in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Contract
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Contract)}
}

// Create stores the contract.
func (r *MemoryRepo) Create(ctx context.Context, scope tenant.Scope, contract Contract) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	contract.OrgID = scope.OrgID
	contract.CreatedBy = scope.UserID
	if contract.Status == "" {
		contract.Status = StatusDraft
	}
	r.byID[contract.ID] = contract
	return nil
}

// GetByID returns a contract within the caller's organization.
func (r *MemoryRepo) GetByID(ctx context.Context, scope tenant.Scope, contractID string) (Contract, error) {
	if err := scope.Validate(); err != nil {
		return Contract{}, err
	}
	if err := ctx.Err(); err != nil {
		return Contract{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	contract, ok := r.byID[contractID]
	if !ok || contract.OrgID != scope.OrgID {
		return Contract{}, ErrNotFound
	}
	return contract, nil
}

// List returns contracts for the organization, newest first.
func (r *MemoryRepo) List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Contract, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Contract
	for _, contract := range r.byID {
		if contract.OrgID != scope.OrgID {
			continue
		}
		if filter.Status != "" && contract.Status != filter.Status {
			continue
		}
		if filter.Risk != "" && (contract.Risk == nil || *contract.Risk != filter.Risk) {
			continue
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			if !strings.Contains(strings.ToLower(contract.Name), strings.ToLower(search)) {
				continue
			}
		}
		out = append(out, contract)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpdateStatus moves a contract from one status to another.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, scope tenant.Scope, contractID string, from, to Status) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.byID[contractID]
	if !ok || contract.OrgID != scope.OrgID || contract.Status != from {
		return ErrNotFound
	}
	contract.Status = to
	r.byID[contractID] = contract
	return nil
}

// SetRisk records the classified risk level.
func (r *MemoryRepo) SetRisk(ctx context.Context, scope tenant.Scope, contractID string, risk RiskLevel) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.byID[contractID]
	if !ok || contract.OrgID != scope.OrgID {
		return ErrNotFound
	}
	contract.Risk = &risk
	r.byID[contractID] = contract
	return nil
}

// SetDocument records the stored document reference.
func (r *MemoryRepo) SetDocument(ctx context.Context, scope tenant.Scope, contractID, path, url string) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.byID[contractID]
	if !ok || contract.OrgID != scope.OrgID {
		return ErrNotFound
	}
	contract.DocumentPath = path
	contract.DocumentURL = url
	r.byID[contractID] = contract
	return nil
}

// SetDates records extracted start/end dates, keeping existing values
// where the new ones are nil.
func (r *MemoryRepo) SetDates(ctx context.Context, scope tenant.Scope, contractID string, start, end *time.Time) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.byID[contractID]
	if !ok || contract.OrgID != scope.OrgID {
		return ErrNotFound
	}
	if start != nil {
		contract.StartDate = start
	}
	if end != nil {
		contract.EndDate = end
	}
	r.byID[contractID] = contract
	return nil
}

// MarkExpired batch-expires overdue Active/Approved contracts for the org.
func (r *MemoryRepo) MarkExpired(ctx context.Context, scope tenant.Scope, now time.Time) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, contract := range r.byID {
		if contract.OrgID != scope.OrgID {
			continue
		}
		if contract.Status != StatusActive && contract.Status != StatusApproved {
			continue
		}
		if contract.EndDate == nil || !contract.EndDate.Before(now) {
			continue
		}
		contract.Status = StatusExpired
		r.byID[id] = contract
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Summary computes the KPI aggregates for the org.
func (r *MemoryRepo) Summary(ctx context.Context, scope tenant.Scope, now time.Time) (KPISummary, error) {
	if err := scope.Validate(); err != nil {
		return KPISummary{}, err
	}
	if err := ctx.Err(); err != nil {
		return KPISummary{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := KPISummary{
		ByStatus: map[Status]int{},
		ByRisk:   map[RiskLevel]int{},
	}
	horizon := now.Add(30 * 24 * time.Hour)
	for _, contract := range r.byID {
		if contract.OrgID != scope.OrgID {
			continue
		}
		summary.Total++
		summary.ByStatus[contract.Status]++
		if contract.Risk != nil {
			summary.ByRisk[*contract.Risk]++
		}
		if contract.Value != nil {
			summary.TotalValue += *contract.Value
		}
		if contract.EndDate != nil && contract.EndDate.After(now) && contract.EndDate.Before(horizon) {
			summary.ExpiringIn30Days++
		}
	}
	return summary, nil
}

var _ Repo = (*MemoryRepo)(nil)
