package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

func seedContract(t *testing.T, repo Repo, scope tenant.Scope, id string, status Status, endDate time.Time) {
	t.Helper()
	end := endDate
	err := repo.Create(context.Background(), scope, Contract{
		ID:        id,
		OrgID:     scope.OrgID,
		Name:      "contract " + id,
		Status:    status,
		EndDate:   &end,
		CreatedBy: scope.UserID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestReconcilerExpiresOverdueContracts(t *testing.T) {
	repo := NewMemoryRepo()
	bus := live.NewMemoryBus()
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	otherScope := tenant.Scope{OrgID: "org-2", UserID: "user-2"}
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	seedContract(t, repo, scope, "active-overdue", StatusActive, past)
	seedContract(t, repo, scope, "approved-overdue", StatusApproved, past)
	seedContract(t, repo, scope, "active-current", StatusActive, future)
	seedContract(t, repo, scope, "draft-overdue", StatusDraft, past)
	seedContract(t, repo, scope, "rejected-overdue", StatusRejected, past)
	seedContract(t, repo, otherScope, "other-org-overdue", StatusActive, past)

	var events []live.Event
	cancel := bus.Subscribe(live.Scope{Table: live.TableContracts}, func(ev live.Event) {
		events = append(events, ev)
	})
	defer cancel()

	rec := NewReconciler(repo, bus)
	rec.now = func() time.Time { return now }

	n, err := rec.Run(ctx, scope)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 expired, got %d", n)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	for id, want := range map[string]Status{
		"active-overdue":   StatusExpired,
		"approved-overdue": StatusExpired,
		"active-current":   StatusActive,
		"draft-overdue":    StatusDraft,
		"rejected-overdue": StatusRejected,
	} {
		got, err := repo.GetByID(ctx, scope, id)
		if err != nil {
			t.Fatalf("GetByID(%s): %v", id, err)
		}
		if got.Status != want {
			t.Errorf("%s: got status %s, want %s", id, got.Status, want)
		}
	}

	foreign, err := repo.GetByID(ctx, otherScope, "other-org-overdue")
	if err != nil {
		t.Fatalf("GetByID(other-org): %v", err)
	}
	if foreign.Status != StatusActive {
		t.Errorf("other org contract must not be touched, got %s", foreign.Status)
	}

	// Second pass finds nothing left to do.
	n, err = rec.Run(ctx, scope)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected idempotent second pass, expired %d", n)
	}
}

func TestReconcilerRejectsEmptyScope(t *testing.T) {
	rec := NewReconciler(NewMemoryRepo(), live.NewMemoryBus())
	if _, err := rec.Run(context.Background(), tenant.Scope{}); err == nil {
		t.Fatal("expected error for empty scope")
	}
}
