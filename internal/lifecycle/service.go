package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Service maintains the stage timeline of a contract.
type Service struct {
	Repo Repo
	Bus  live.Bus

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, bus live.Bus) *Service {
	return &Service{Repo: repo, Bus: bus, now: time.Now}
}

// StartStage closes the contract's open entry, if any, and opens a new
// one for the given stage. Re-entering the currently open stage is a
// no-op so callers can invoke it on every status change.
func (s *Service) StartStage(ctx context.Context, scope tenant.Scope, contractID, stage, notes string) (Entry, error) {
	if !ValidStage(stage) {
		return Entry{}, ErrInvalidStage
	}

	now := s.now().UTC()

	open, err := s.Repo.Open(ctx, scope, contractID)
	switch {
	case err == nil:
		if open.Stage == stage {
			return open, nil
		}
		if err := s.Repo.Close(ctx, scope, open.ID, now); err != nil {
			return Entry{}, err
		}
	case errors.Is(err, ErrNotFound):
	default:
		return Entry{}, err
	}

	entry := Entry{
		ID:         uuid.NewString(),
		ContractID: contractID,
		Stage:      stage,
		StartedAt:  now,
		Notes:      notes,
		AuthorID:   scope.UserID,
	}
	if err := s.Repo.Create(ctx, scope, entry); err != nil {
		return Entry{}, err
	}

	if s.Bus != nil {
		s.Bus.Publish(live.Event{Table: live.TableLifecycle, ContractID: contractID, Op: live.OpInsert})
	}
	return entry, nil
}

// Timeline returns the contract's stage history, oldest first.
func (s *Service) Timeline(ctx context.Context, scope tenant.Scope, contractID string) ([]Entry, error) {
	return s.Repo.ListByContract(ctx, scope, contractID)
}
