package companies

import "context"

// Repo resolves identities to organizations at login. These calls run
// before any org scope exists, so they are not tenant-scoped.
type Repo interface {
	// UpsertProfile records the user seen at login, keyed by email, and
	// returns the stored profile.
	UpsertProfile(ctx context.Context, profile Profile) (Profile, error)
	// MembershipByUser returns the user's company membership, or
	// ErrNoMembership.
	MembershipByUser(ctx context.Context, userID string) (Membership, error)
	GetCompany(ctx context.Context, companyID string) (Company, error)
}
