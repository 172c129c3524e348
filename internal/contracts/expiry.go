package contracts

import (
	"context"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/metrics"
	"github.com/gitaufar/technoday-sub001/internal/shared/telemetry"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Reconciler opportunistically expires overdue contracts at read time.
// There is no background scheduler: each org-scoped list fetch runs one
// pass, which keeps derived state eventually consistent without a daemon.
type Reconciler struct {
	Repo Repo
	Bus  live.Bus
	now  func() time.Time
}

// NewReconciler constructs a Reconciler.
func NewReconciler(repo Repo, bus live.Bus) *Reconciler {
	return &Reconciler{Repo: repo, Bus: bus, now: time.Now}
}

// Run transitions every Active/Approved contract in the org whose end date
// is strictly in the past to Expired. Terminal contracts and other orgs are
// never touched; running twice in a row is a no-op the second time.
func (r *Reconciler) Run(ctx context.Context, scope tenant.Scope) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	ids, err := r.Repo.MarkExpired(ctx, scope, r.now().UTC())
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	metrics.AddContractsExpired(len(ids))
	telemetry.Info("contracts.expired", map[string]any{
		"org_id": scope.OrgID,
		"count":  len(ids),
	})
	if r.Bus != nil {
		for _, id := range ids {
			r.Bus.Publish(live.Event{Table: live.TableContracts, ContractID: id, Op: live.OpUpdate})
		}
	}
	return len(ids), nil
}
