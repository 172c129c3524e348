package risk

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

func TestPGRepoCreateAnalysisForeignContract(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ai_risk_analysis")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	scope := tenant.Scope{OrgID: "org-2", UserID: "user-2"}
	record := AnalysisRecord{
		ID:         "a1",
		ContractID: "c1",
		RiskLevel:  "High",
		Confidence: 0.91,
		ModelUsed:  "risk-v2",
		CreatedAt:  time.Now(),
	}

	if err := repo.CreateAnalysis(context.Background(), scope, record); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when contract is outside org, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGRepoListFindings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "contract_id", "section", "severity", "title", "description", "created_at"}).
		AddRow("f2", "c1", "Clause 9", "High", "Unlimited liability", nil, now).
		AddRow("f1", "c1", nil, "Medium", "Auto renewal", "Contract renews silently", now.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("FROM risk_findings f")).
		WithArgs("c1", "org-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}

	got, err := repo.ListFindings(context.Background(), scope, "c1")
	if err != nil {
		t.Fatalf("ListFindings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	if got[0].ID != "f2" || got[0].Section != "Clause 9" {
		t.Fatalf("unexpected first finding: %+v", got[0])
	}
	if got[1].Description != "Contract renews silently" {
		t.Fatalf("unexpected second finding: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGRepoCreateFindingsEmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	scope := tenant.Scope{OrgID: "org-1", UserID: "user-1"}
	if err := repo.CreateFindings(context.Background(), scope, nil); err != nil {
		t.Fatalf("CreateFindings(nil): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
