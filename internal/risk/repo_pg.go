package risk

import (
	"context"
	"database/sql"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// PGRepo implements Repo using Postgres. Organization scope is enforced
// through the owning contract on every statement.
type PGRepo struct {
	DB *sql.DB
}

// CreateFindings inserts all findings from one pass.
func (r *PGRepo) CreateFindings(ctx context.Context, scope tenant.Scope, findings []Finding) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if len(findings) == 0 {
		return nil
	}

	const query = `
INSERT INTO risk_findings (id, contract_id, section, severity, title, description, created_at)
SELECT $1, $2, $3, $4, $5, $6, $7
WHERE EXISTS (SELECT 1 FROM contracts WHERE id = $2 AND organization_id = $8)`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, f := range findings {
		res, err := tx.ExecContext(
			ctx,
			query,
			f.ID,
			f.ContractID,
			nullStr(f.Section),
			f.Severity,
			f.Title,
			nullStr(f.Description),
			f.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return err
		}
		if affected == 0 {
			tx.Rollback()
			return ErrNotFound
		}
	}
	return tx.Commit()
}

// ListFindings returns all findings for a contract, newest first.
func (r *PGRepo) ListFindings(ctx context.Context, scope tenant.Scope, contractID string) ([]Finding, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	const query = `
SELECT f.id, f.contract_id, f.section, f.severity, f.title, f.description, f.created_at
FROM risk_findings f
JOIN contracts c ON c.id = f.contract_id
WHERE f.contract_id = $1 AND c.organization_id = $2
ORDER BY f.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, contractID, scope.OrgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Finding
	for rows.Next() {
		var (
			f           Finding
			section     sql.NullString
			description sql.NullString
		)
		err := rows.Scan(&f.ID, &f.ContractID, &section, &f.Severity, &f.Title, &description, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		if section.Valid {
			f.Section = section.String
		}
		if description.Valid {
			f.Description = description.String
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CreateAnalysis writes one audit row.
func (r *PGRepo) CreateAnalysis(ctx context.Context, scope tenant.Scope, record AnalysisRecord) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO ai_risk_analysis (id, contract_id, raw_response, risk_level, confidence, model_used, processing_time_ms, created_at)
SELECT $1, $2, $3, $4, $5, $6, $7, $8
WHERE EXISTS (SELECT 1 FROM contracts WHERE id = $2 AND organization_id = $9)`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		record.ID,
		record.ContractID,
		nullBytes(record.RawResponse),
		record.RiskLevel,
		record.Confidence,
		record.ModelUsed,
		record.ProcessingTimeMs,
		record.CreatedAt,
		scope.OrgID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAnalyses returns the audit trail for a contract, newest first.
func (r *PGRepo) ListAnalyses(ctx context.Context, scope tenant.Scope, contractID string) ([]AnalysisRecord, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	const query = `
SELECT a.id, a.contract_id, a.raw_response, a.risk_level, a.confidence, a.model_used, a.processing_time_ms, a.created_at
FROM ai_risk_analysis a
JOIN contracts c ON c.id = a.contract_id
WHERE a.contract_id = $1 AND c.organization_id = $2
ORDER BY a.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, contractID, scope.OrgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var (
			record AnalysisRecord
			raw    []byte
			timeMs sql.NullInt64
		)
		err := rows.Scan(
			&record.ID,
			&record.ContractID,
			&raw,
			&record.RiskLevel,
			&record.Confidence,
			&record.ModelUsed,
			&timeMs,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		record.RawResponse = raw
		if timeMs.Valid {
			record.ProcessingTimeMs = timeMs.Int64
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

var _ Repo = (*PGRepo)(nil)
