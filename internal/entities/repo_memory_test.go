package entities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

func TestMemoryRepoLatestByContract(t *testing.T) {
	repo := NewMemoryRepo()
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	ctx := context.Background()

	base := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	v1 := int64(1_000_000)
	v2 := int64(4_338_283_000)

	passes := []Extraction{
		{ID: "e1", ContractID: "c1", FirstParty: "PT Alpha", Value: &v1, AnalyzedAt: base},
		{ID: "e2", ContractID: "c1", FirstParty: "PT Alpha Revised", Value: &v2, AnalyzedAt: base.Add(time.Hour)},
		{ID: "e3", ContractID: "c2", FirstParty: "PT Beta", AnalyzedAt: base.Add(2 * time.Hour)},
	}
	for _, p := range passes {
		if err := repo.Create(ctx, scope, p); err != nil {
			t.Fatalf("Create(%s): %v", p.ID, err)
		}
	}

	latest, err := repo.LatestByContract(ctx, scope, "c1")
	if err != nil {
		t.Fatalf("LatestByContract: %v", err)
	}
	if latest.ID != "e2" {
		t.Fatalf("expected latest pass e2, got %s", latest.ID)
	}
	if latest.Value == nil || *latest.Value != v2 {
		t.Fatalf("expected latest value %d, got %v", v2, latest.Value)
	}

	all, err := repo.ListByContract(ctx, scope, "c1")
	if err != nil {
		t.Fatalf("ListByContract: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(all))
	}
	if all[0].ID != "e2" || all[1].ID != "e1" {
		t.Fatalf("expected newest-first order, got %s, %s", all[0].ID, all[1].ID)
	}
}

func TestMemoryRepoScopeIsolation(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	owner := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	other := tenant.Scope{OrgID: "org-2", UserID: "user-2"}

	pass := Extraction{ID: "e1", ContractID: "c1", FirstParty: "PT Alpha", AnalyzedAt: time.Now()}
	if err := repo.Create(ctx, owner, pass); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.LatestByContract(ctx, other, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign org, got %v", err)
	}

	if _, err := repo.ListByContract(ctx, tenant.Scope{}, "c1"); !errors.Is(err, tenant.ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope for empty scope, got %v", err)
	}
}
