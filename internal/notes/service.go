package notes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Service contains business logic for legal notes.
type Service struct {
	Repo Repo
	Bus  live.Bus
}

// NewService constructs a Service.
func NewService(repo Repo, bus live.Bus) *Service {
	return &Service{Repo: repo, Bus: bus}
}

// Add records a note on a contract and notifies live subscribers.
func (s *Service) Add(ctx context.Context, scope tenant.Scope, contractID, authorName, body string) (LegalNote, error) {
	body = strings.TrimSpace(body)
	if body == "" || contractID == "" {
		return LegalNote{}, ErrInvalidInput
	}

	note := LegalNote{
		ID:         uuid.NewString(),
		ContractID: contractID,
		AuthorID:   scope.UserID,
		AuthorName: authorName,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, scope, note); err != nil {
		return LegalNote{}, err
	}

	if s.Bus != nil {
		s.Bus.Publish(live.Event{Table: live.TableNotes, ContractID: contractID, Op: live.OpInsert})
	}
	return note, nil
}

// List returns all notes for a contract, newest first.
func (s *Service) List(ctx context.Context, scope tenant.Scope, contractID string) ([]LegalNote, error) {
	if contractID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByContract(ctx, scope, contractID)
}
