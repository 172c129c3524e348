package contracts

import (
	"context"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Repo defines persistence operations for contracts. Every call is scoped
// to one organization; implementations must reject an invalid scope.
type Repo interface {
	Create(ctx context.Context, scope tenant.Scope, contract Contract) error
	GetByID(ctx context.Context, scope tenant.Scope, contractID string) (Contract, error)
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Contract, error)
	UpdateStatus(ctx context.Context, scope tenant.Scope, contractID string, from, to Status) error
	SetRisk(ctx context.Context, scope tenant.Scope, contractID string, risk RiskLevel) error
	SetDocument(ctx context.Context, scope tenant.Scope, contractID, path, url string) error
	// SetDates records extracted start/end dates. A nil date leaves the
	// stored value untouched.
	SetDates(ctx context.Context, scope tenant.Scope, contractID string, start, end *time.Time) error
	// MarkExpired transitions every Active/Approved contract in the org
	// whose end date is strictly before now to Expired, returning the
	// affected ids. Terminal contracts are never touched.
	MarkExpired(ctx context.Context, scope tenant.Scope, now time.Time) ([]string, error)
	Summary(ctx context.Context, scope tenant.Scope, now time.Time) (KPISummary, error)
}
