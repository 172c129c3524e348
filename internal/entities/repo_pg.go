package entities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// PGRepo implements Repo using Postgres. Organization scope is enforced by
// joining through the owning contract.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new extraction pass, provided the contract belongs to
// the caller's organization.
func (r *PGRepo) Create(ctx context.Context, scope tenant.Scope, extraction Extraction) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO contract_entities (id, contract_id, first_party, second_party, value, duration_months, key_terms, confidence, method, analyzed_at)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
WHERE EXISTS (SELECT 1 FROM contracts WHERE id = $2 AND organization_id = $11)`

	keyTerms, err := marshalKeyTerms(extraction.KeyTerms)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		extraction.ID,
		extraction.ContractID,
		nullStr(extraction.FirstParty),
		nullStr(extraction.SecondParty),
		nullInt64(extraction.Value),
		nullInt(extraction.DurationMonths),
		keyTerms,
		extraction.Confidence,
		nullStr(extraction.Method),
		extraction.AnalyzedAt,
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

// ListByContract returns all passes for a contract, newest first.
func (r *PGRepo) ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]Extraction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	const query = `
SELECT e.id, e.contract_id, e.first_party, e.second_party, e.value, e.duration_months, e.key_terms, e.confidence, e.method, e.analyzed_at
FROM contract_entities e
JOIN contracts c ON c.id = e.contract_id
WHERE e.contract_id = $1 AND c.organization_id = $2
ORDER BY e.analyzed_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, contractID, scope.OrgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		extraction, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, extraction)
	}
	return out, rows.Err()
}

// LatestByContract returns the most recent pass for a contract.
func (r *PGRepo) LatestByContract(ctx context.Context, scope tenant.Scope, contractID string) (Extraction, error) {
	if err := scope.Validate(); err != nil {
		return Extraction{}, err
	}

	const query = `
SELECT e.id, e.contract_id, e.first_party, e.second_party, e.value, e.duration_months, e.key_terms, e.confidence, e.method, e.analyzed_at
FROM contract_entities e
JOIN contracts c ON c.id = e.contract_id
WHERE e.contract_id = $1 AND c.organization_id = $2
ORDER BY e.analyzed_at DESC
LIMIT 1`

	row := r.DB.QueryRowContext(ctx, query, contractID, scope.OrgID)
	extraction, err := scanExtraction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}
	return extraction, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row rowScanner) (Extraction, error) {
	var (
		extraction  Extraction
		firstParty  sql.NullString
		secondParty sql.NullString
		value       sql.NullInt64
		duration    sql.NullInt64
		keyTerms    []byte
		method      sql.NullString
	)
	err := row.Scan(
		&extraction.ID,
		&extraction.ContractID,
		&firstParty,
		&secondParty,
		&value,
		&duration,
		&keyTerms,
		&extraction.Confidence,
		&method,
		&extraction.AnalyzedAt,
	)
	if err != nil {
		return Extraction{}, err
	}
	if firstParty.Valid {
		extraction.FirstParty = firstParty.String
	}
	if secondParty.Valid {
		extraction.SecondParty = secondParty.String
	}
	if value.Valid {
		v := value.Int64
		extraction.Value = &v
	}
	if duration.Valid {
		d := int(duration.Int64)
		extraction.DurationMonths = &d
	}
	if len(keyTerms) > 0 {
		if err := json.Unmarshal(keyTerms, &extraction.KeyTerms); err != nil {
			return Extraction{}, err
		}
	}
	if method.Valid {
		extraction.Method = method.String
	}
	return extraction, nil
}

func marshalKeyTerms(terms []string) ([]byte, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	return json.Marshal(terms)
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

var _ Repo = (*PGRepo)(nil)
