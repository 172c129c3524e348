package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

func TestStartStageClosesPreviousEntry(t *testing.T) {
	svc := NewService(NewMemoryRepo(), live.NewMemoryBus())
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	ctx := context.Background()

	base := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	first, err := svc.StartStage(ctx, scope, "c1", StageDrafting, "")
	if err != nil {
		t.Fatalf("StartStage(drafting): %v", err)
	}

	svc.now = func() time.Time { return base.Add(90 * time.Second) }
	second, err := svc.StartStage(ctx, scope, "c1", StageReview, "sent to legal")
	if err != nil {
		t.Fatalf("StartStage(review): %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a new entry for the new stage")
	}

	timeline, err := svc.Timeline(ctx, scope, "c1")
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(timeline))
	}
	if timeline[0].CompletedAt == nil {
		t.Fatal("expected first entry to be closed")
	}
	if timeline[0].DurationSeconds == nil || *timeline[0].DurationSeconds != 90 {
		t.Fatalf("expected 90s duration, got %v", timeline[0].DurationSeconds)
	}
	if timeline[1].CompletedAt != nil {
		t.Fatal("expected second entry to remain open")
	}
}

func TestStartStageSameStageIsNoop(t *testing.T) {
	svc := NewService(NewMemoryRepo(), live.NewMemoryBus())
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	ctx := context.Background()

	first, err := svc.StartStage(ctx, scope, "c1", StageReview, "")
	if err != nil {
		t.Fatalf("StartStage: %v", err)
	}
	again, err := svc.StartStage(ctx, scope, "c1", StageReview, "")
	if err != nil {
		t.Fatalf("StartStage repeat: %v", err)
	}
	if again.ID != first.ID {
		t.Fatal("expected the open entry back, not a new one")
	}

	timeline, err := svc.Timeline(ctx, scope, "c1")
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(timeline) != 1 {
		t.Fatalf("expected a single entry, got %d", len(timeline))
	}
}

func TestStartStageRejectsUnknownStage(t *testing.T) {
	svc := NewService(NewMemoryRepo(), live.NewMemoryBus())
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}

	if _, err := svc.StartStage(context.Background(), scope, "c1", "negotiating", ""); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}
