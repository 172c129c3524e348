package contracts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Service contains business logic for contracts.
type Service struct {
	Repo       Repo
	Bus        live.Bus
	Reconciler *Reconciler

	viewMu sync.Mutex
	views  map[string]*SummaryView
	syncer *live.Synchronizer
}

// NewService constructs a Service with a read-time expiry reconciler.
// When a bus is present, per-org KPI summaries are served from live
// views instead of recomputed on every call.
func NewService(repo Repo, bus live.Bus) *Service {
	s := &Service{Repo: repo, Bus: bus, Reconciler: NewReconciler(repo, bus)}
	if bus != nil {
		s.syncer = live.NewSynchronizer(bus)
		s.views = make(map[string]*SummaryView)
	}
	return s
}

// CreateInput carries caller-supplied contract fields.
type CreateInput struct {
	Name        string
	FirstParty  string
	SecondParty string
	Value       *int64
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create registers a new Draft contract.
func (s *Service) Create(ctx context.Context, scope tenant.Scope, in CreateInput) (Contract, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Contract{}, ErrInvalidInput
	}

	contract := Contract{
		ID:          uuid.NewString(),
		OrgID:       scope.OrgID,
		Name:        in.Name,
		FirstParty:  strings.TrimSpace(in.FirstParty),
		SecondParty: strings.TrimSpace(in.SecondParty),
		Value:       in.Value,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      StatusDraft,
		CreatedBy:   scope.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, scope, contract); err != nil {
		return Contract{}, err
	}

	if s.Bus != nil {
		s.Bus.Publish(live.Event{Table: live.TableContracts, ContractID: contract.ID, Op: live.OpInsert})
	}
	return contract, nil
}

// Get returns one contract after an expiry pass, so a stale Active row
// is never served past its end date.
func (s *Service) Get(ctx context.Context, scope tenant.Scope, contractID string) (Contract, error) {
	if _, err := s.Reconciler.Run(ctx, scope); err != nil {
		return Contract{}, err
	}
	return s.Repo.GetByID(ctx, scope, contractID)
}

// List returns the org's contracts after an expiry pass.
func (s *Service) List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Contract, error) {
	if _, err := s.Reconciler.Run(ctx, scope); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, scope, filter)
}

// Transition moves a contract to the requested status, enforcing the
// status machine. The current status is re-read and passed to the store
// as a guard so concurrent transitions cannot both win.
func (s *Service) Transition(ctx context.Context, scope tenant.Scope, contractID string, to Status) (Contract, error) {
	if !to.Valid() {
		return Contract{}, ErrInvalidTransition
	}

	current, err := s.Repo.GetByID(ctx, scope, contractID)
	if err != nil {
		return Contract{}, err
	}
	if !current.Status.CanTransitionTo(to) {
		return Contract{}, ErrInvalidTransition
	}
	if err := s.Repo.UpdateStatus(ctx, scope, contractID, current.Status, to); err != nil {
		return Contract{}, err
	}

	if s.Bus != nil {
		s.Bus.Publish(live.Event{Table: live.TableContracts, ContractID: contractID, Op: live.OpUpdate})
	}

	current.Status = to
	return current, nil
}

// Summary returns the org's KPI numbers after an expiry pass.
func (s *Service) Summary(ctx context.Context, scope tenant.Scope) (KPISummary, error) {
	if _, err := s.Reconciler.Run(ctx, scope); err != nil {
		return KPISummary{}, err
	}
	if s.syncer == nil {
		return s.Repo.Summary(ctx, scope, time.Now().UTC())
	}
	return s.summaryView(scope).Current(ctx)
}

func (s *Service) summaryView(scope tenant.Scope) *SummaryView {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	view, ok := s.views[scope.OrgID]
	if !ok {
		view = NewSummaryView(s.Repo, s.syncer, scope)
		s.views[scope.OrgID] = view
	}
	return view
}

// Close releases every live summary view binding.
func (s *Service) Close() {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	for org, view := range s.views {
		view.Close()
		delete(s.views, org)
	}
}
