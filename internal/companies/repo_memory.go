package companies

import (
	"context"
	"sync"
)

// MemoryRepo stores companies and memberships in memory. Dev setups seed
// it through AddCompany and AddMembership.
type MemoryRepo struct {
	mu              sync.RWMutex
	companies       map[string]Company
	profilesByEmail map[string]Profile
	memberships     map[string]Membership
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		companies:       make(map[string]Company),
		profilesByEmail: make(map[string]Profile),
		memberships:     make(map[string]Membership),
	}
}

// AddCompany seeds a company.
func (r *MemoryRepo) AddCompany(company Company) {
	r.mu.Lock()
	r.companies[company.ID] = company
	r.mu.Unlock()
}

// AddMembership seeds a membership.
func (r *MemoryRepo) AddMembership(m Membership) {
	r.mu.Lock()
	r.memberships[m.UserID] = m
	r.mu.Unlock()
}

// UpsertProfile records the user seen at login, keyed by email.
func (r *MemoryRepo) UpsertProfile(ctx context.Context, profile Profile) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.profilesByEmail[profile.Email]; ok {
		existing.FullName = profile.FullName
		existing.AvatarURL = profile.AvatarURL
		r.profilesByEmail[profile.Email] = existing
		return existing, nil
	}
	r.profilesByEmail[profile.Email] = profile
	return profile, nil
}

// MembershipByUser returns the user's company membership.
func (r *MemoryRepo) MembershipByUser(ctx context.Context, userID string) (Membership, error) {
	if err := ctx.Err(); err != nil {
		return Membership{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memberships[userID]
	if !ok {
		return Membership{}, ErrNoMembership
	}
	return m, nil
}

// GetCompany returns one company.
func (r *MemoryRepo) GetCompany(ctx context.Context, companyID string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, ok := r.companies[companyID]
	if !ok {
		return Company{}, ErrNotFound
	}
	return company, nil
}

var _ Repo = (*MemoryRepo)(nil)
