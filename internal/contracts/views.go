package contracts

import (
	"context"
	"sync"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// SummaryView is a cached KPI summary for one org, kept fresh by the
// live bus instead of recomputing on every dashboard poll.
type SummaryView struct {
	repo   Repo
	scope  tenant.Scope
	cancel live.CancelFunc

	mu      sync.RWMutex
	summary KPISummary
	fresh   bool
}

// NewSummaryView builds a view for the org and binds it to contract
// change notifications. Callers own the view and must Close it.
func NewSummaryView(repo Repo, syncer *live.Synchronizer, scope tenant.Scope) *SummaryView {
	v := &SummaryView{repo: repo, scope: scope}
	v.cancel = syncer.Bind(v, live.ListScopes()...)
	return v
}

// Refresh recomputes the summary from the store.
func (v *SummaryView) Refresh(ctx context.Context) error {
	summary, err := v.repo.Summary(ctx, v.scope, time.Now().UTC())
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.summary = summary
	v.fresh = true
	v.mu.Unlock()
	return nil
}

// Current returns the cached summary, falling back to a direct fetch
// when no refresh has landed yet.
func (v *SummaryView) Current(ctx context.Context) (KPISummary, error) {
	v.mu.RLock()
	summary, fresh := v.summary, v.fresh
	v.mu.RUnlock()
	if fresh {
		return summary, nil
	}
	return v.repo.Summary(ctx, v.scope, time.Now().UTC())
}

// Close releases the live subscription.
func (v *SummaryView) Close() {
	if v.cancel != nil {
		v.cancel()
	}
}

var _ live.View = (*SummaryView)(nil)
