package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

func waitForTotal(t *testing.T, svc *Service, scope tenant.Scope, want int) KPISummary {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var last KPISummary
	for time.Now().Before(deadline) {
		summary, err := svc.Summary(context.Background(), scope)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		if summary.Total == want {
			return summary
		}
		last = summary
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("summary total = %d, want %d", last.Total, want)
	return KPISummary{}
}

func TestSummaryViewRefreshesOnContractChanges(t *testing.T) {
	repo := NewMemoryRepo()
	bus := live.NewMemoryBus()
	svc := NewService(repo, bus)
	defer svc.Close()
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	ctx := context.Background()

	summary := waitForTotal(t, svc, scope, 0)
	if summary.TotalValue != 0 {
		t.Fatalf("empty org total value = %d", summary.TotalValue)
	}

	value := int64(5000)
	if _, err := svc.Create(ctx, scope, CreateInput{Name: "supply agreement", Value: &value}); err != nil {
		t.Fatalf("create: %v", err)
	}

	summary = waitForTotal(t, svc, scope, 1)
	if summary.ByStatus[StatusDraft] != 1 {
		t.Fatalf("draft count = %d, want 1", summary.ByStatus[StatusDraft])
	}
	if summary.TotalValue != 5000 {
		t.Fatalf("total value = %d, want 5000", summary.TotalValue)
	}
}

func TestSummaryViewIsPerOrg(t *testing.T) {
	repo := NewMemoryRepo()
	bus := live.NewMemoryBus()
	svc := NewService(repo, bus)
	defer svc.Close()
	ctx := context.Background()
	orgA := tenant.Scope{OrgID: "org-a", UserID: "user-a"}
	orgB := tenant.Scope{OrgID: "org-b", UserID: "user-b"}

	if _, err := svc.Create(ctx, orgA, CreateInput{Name: "lease"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	waitForTotal(t, svc, orgA, 1)
	waitForTotal(t, svc, orgB, 0)
}
