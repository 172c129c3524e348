package contracts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const contractColumns = `id, organization_id, name, first_party, second_party, value, duration_months, start_date, end_date, status, risk, document_path, document_url, created_by, created_at`

// Create inserts a new contract.
func (r *PGRepo) Create(ctx context.Context, scope tenant.Scope, contract Contract) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO contracts (
    id,
    organization_id,
    name,
    first_party,
    second_party,
    value,
    duration_months,
    start_date,
    end_date,
    status,
    risk,
    document_path,
    document_url,
    created_by,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	status := contract.Status
	if status == "" {
		status = StatusDraft
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		contract.ID,
		scope.OrgID,
		contract.Name,
		nullStr(contract.FirstParty),
		nullStr(contract.SecondParty),
		nullInt64(contract.Value),
		nullInt(contract.DurationMonths),
		nullTime(contract.StartDate),
		nullTime(contract.EndDate),
		string(status),
		nullRisk(contract.Risk),
		nullStr(contract.DocumentPath),
		nullStr(contract.DocumentURL),
		scope.UserID,
		contract.CreatedAt,
	)
	return err
}

// GetByID returns a contract within the caller's organization.
func (r *PGRepo) GetByID(ctx context.Context, scope tenant.Scope, contractID string) (Contract, error) {
	if err := scope.Validate(); err != nil {
		return Contract{}, err
	}

	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 AND organization_id = $2`
	row := r.DB.QueryRowContext(ctx, query, contractID, scope.OrgID)
	contract, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contract{}, ErrNotFound
		}
		return Contract{}, err
	}
	return contract, nil
}

// List returns contracts for the organization, newest first.
func (r *PGRepo) List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Contract, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	query := `SELECT ` + contractColumns + ` FROM contracts WHERE organization_id = $1`
	args := []any{scope.OrgID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Risk != "" {
		args = append(args, string(filter.Risk))
		query += fmt.Sprintf(" AND risk = $%d", len(args))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, contract)
	}
	return out, rows.Err()
}

// UpdateStatus moves a contract from one status to another. The expected
// current status guards against concurrent writers.
func (r *PGRepo) UpdateStatus(ctx context.Context, scope tenant.Scope, contractID string, from, to Status) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
UPDATE contracts SET status = $1
WHERE id = $2 AND organization_id = $3 AND status = $4`

	res, err := r.DB.ExecContext(ctx, query, string(to), contractID, scope.OrgID, string(from))
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

// SetRisk records the classified risk level.
func (r *PGRepo) SetRisk(ctx context.Context, scope tenant.Scope, contractID string, risk RiskLevel) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `UPDATE contracts SET risk = $1 WHERE id = $2 AND organization_id = $3`
	res, err := r.DB.ExecContext(ctx, query, string(risk), contractID, scope.OrgID)
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

// SetDocument records the stored document reference.
func (r *PGRepo) SetDocument(ctx context.Context, scope tenant.Scope, contractID, path, url string) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `UPDATE contracts SET document_path = $1, document_url = $2 WHERE id = $3 AND organization_id = $4`
	res, err := r.DB.ExecContext(ctx, query, path, url, contractID, scope.OrgID)
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

// SetDates records extracted start/end dates, keeping existing values
// where the new ones are nil.
func (r *PGRepo) SetDates(ctx context.Context, scope tenant.Scope, contractID string, start, end *time.Time) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
UPDATE contracts
SET start_date = COALESCE($1, start_date), end_date = COALESCE($2, end_date)
WHERE id = $3 AND organization_id = $4`

	res, err := r.DB.ExecContext(ctx, query, nullTime(start), nullTime(end), contractID, scope.OrgID)
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

// MarkExpired batch-expires overdue Active/Approved contracts for the org.
func (r *PGRepo) MarkExpired(ctx context.Context, scope tenant.Scope, now time.Time) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	const query = `
UPDATE contracts SET status = 'Expired'
WHERE organization_id = $1
  AND status IN ('Active', 'Approved')
  AND end_date IS NOT NULL
  AND end_date < $2
RETURNING id`

	rows, err := r.DB.QueryContext(ctx, query, scope.OrgID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Summary computes the KPI aggregates for the org.
func (r *PGRepo) Summary(ctx context.Context, scope tenant.Scope, now time.Time) (KPISummary, error) {
	if err := scope.Validate(); err != nil {
		return KPISummary{}, err
	}

	const query = `
SELECT status, risk, COALESCE(value, 0), end_date
FROM contracts
WHERE organization_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, scope.OrgID)
	if err != nil {
		return KPISummary{}, err
	}
	defer rows.Close()

	summary := KPISummary{
		ByStatus: map[Status]int{},
		ByRisk:   map[RiskLevel]int{},
	}
	horizon := now.Add(30 * 24 * time.Hour)
	for rows.Next() {
		var (
			status  string
			risk    sql.NullString
			value   int64
			endDate sql.NullTime
		)
		if err := rows.Scan(&status, &risk, &value, &endDate); err != nil {
			return KPISummary{}, err
		}
		summary.Total++
		summary.ByStatus[Status(status)]++
		if risk.Valid {
			summary.ByRisk[RiskLevel(risk.String)]++
		}
		summary.TotalValue += value
		if endDate.Valid && endDate.Time.After(now) && endDate.Time.Before(horizon) {
			summary.ExpiringIn30Days++
		}
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (Contract, error) {
	var (
		contract    Contract
		firstParty  sql.NullString
		secondParty sql.NullString
		value       sql.NullInt64
		duration    sql.NullInt64
		startDate   sql.NullTime
		endDate     sql.NullTime
		status      string
		risk        sql.NullString
		docPath     sql.NullString
		docURL      sql.NullString
	)
	err := row.Scan(
		&contract.ID,
		&contract.OrgID,
		&contract.Name,
		&firstParty,
		&secondParty,
		&value,
		&duration,
		&startDate,
		&endDate,
		&status,
		&risk,
		&docPath,
		&docURL,
		&contract.CreatedBy,
		&contract.CreatedAt,
	)
	if err != nil {
		return Contract{}, err
	}
	contract.Status = Status(status)
	if firstParty.Valid {
		contract.FirstParty = firstParty.String
	}
	if secondParty.Valid {
		contract.SecondParty = secondParty.String
	}
	if value.Valid {
		v := value.Int64
		contract.Value = &v
	}
	if duration.Valid {
		d := int(duration.Int64)
		contract.DurationMonths = &d
	}
	if startDate.Valid {
		t := startDate.Time
		contract.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		contract.EndDate = &t
	}
	if risk.Valid {
		level := RiskLevel(risk.String)
		contract.Risk = &level
	}
	if docPath.Valid {
		contract.DocumentPath = docPath.String
	}
	if docURL.Valid {
		contract.DocumentURL = docURL.String
	}
	return contract, nil
}

func nullStr(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
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

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullRisk(r *RiskLevel) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

var _ Repo = (*PGRepo)(nil)
