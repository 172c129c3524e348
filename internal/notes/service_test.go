package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

func TestServiceAddPublishesEvent(t *testing.T) {
	bus := live.NewMemoryBus()
	svc := NewService(NewMemoryRepo(), bus)
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}

	var events []live.Event
	cancel := bus.Subscribe(live.Scope{Table: live.TableNotes, ContractID: "c1"}, func(ev live.Event) {
		events = append(events, ev)
	})
	defer cancel()

	note, err := svc.Add(context.Background(), scope, "c1", "Rina", "  Indemnity clause needs rework  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if note.Body != "Indemnity clause needs rework" {
		t.Fatalf("expected trimmed body, got %q", note.Body)
	}
	if note.AuthorID != "user-1" || note.AuthorName != "Rina" {
		t.Fatalf("unexpected author fields: %+v", note)
	}
	if len(events) != 1 || events[0].Op != live.OpInsert {
		t.Fatalf("expected one insert event, got %+v", events)
	}

	got, err := svc.List(context.Background(), scope, "c1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != note.ID {
		t.Fatalf("expected stored note back, got %+v", got)
	}
}

func TestServiceAddRejectsEmptyBody(t *testing.T) {
	svc := NewService(NewMemoryRepo(), live.NewMemoryBus())
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}

	if _, err := svc.Add(context.Background(), scope, "c1", "Rina", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
