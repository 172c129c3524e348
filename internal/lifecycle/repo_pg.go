package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// PGRepo implements Repo using Postgres. A partial unique index on
// (contract_id) WHERE completed_at IS NULL backs the single-open-entry
// rule.
type PGRepo struct {
	DB *sql.DB
}

// Open returns the contract's open entry.
func (r *PGRepo) Open(ctx context.Context, scope tenant.Scope, contractID string) (Entry, error) {
	if err := scope.Validate(); err != nil {
		return Entry{}, err
	}

	const query = `
SELECT l.id, l.contract_id, l.stage, l.started_at, l.completed_at, l.duration_seconds, l.notes, l.author_id
FROM contract_lifecycle l
JOIN contracts c ON c.id = l.contract_id
WHERE l.contract_id = $1 AND c.organization_id = $2 AND l.completed_at IS NULL`

	entry, err := scanEntry(r.DB.QueryRowContext(ctx, query, contractID, scope.OrgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

// Close completes an entry and records its duration in seconds.
func (r *PGRepo) Close(ctx context.Context, scope tenant.Scope, entryID string, at time.Time) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
UPDATE contract_lifecycle l
SET completed_at = $2,
    duration_seconds = EXTRACT(EPOCH FROM ($2 - l.started_at))::BIGINT
FROM contracts c
WHERE l.id = $1 AND c.id = l.contract_id AND c.organization_id = $3 AND l.completed_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, entryID, at, scope.OrgID)
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

// Create inserts a new open entry.
func (r *PGRepo) Create(ctx context.Context, scope tenant.Scope, entry Entry) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO contract_lifecycle (id, contract_id, stage, started_at, completed_at, duration_seconds, notes, author_id)
SELECT $1, $2, $3, $4, $5, $6, $7, $8
WHERE EXISTS (SELECT 1 FROM contracts WHERE id = $2 AND organization_id = $9)`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ContractID,
		entry.Stage,
		entry.StartedAt,
		nullTime(entry.CompletedAt),
		nullInt64(entry.DurationSeconds),
		nullStr(entry.Notes),
		nullStr(entry.AuthorID),
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

// ListByContract returns all entries for a contract, oldest first, so
// the timeline reads top to bottom.
func (r *PGRepo) ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]Entry, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	const query = `
SELECT l.id, l.contract_id, l.stage, l.started_at, l.completed_at, l.duration_seconds, l.notes, l.author_id
FROM contract_lifecycle l
JOIN contracts c ON c.id = l.contract_id
WHERE l.contract_id = $1 AND c.organization_id = $2
ORDER BY l.started_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, contractID, scope.OrgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry       Entry
		completedAt sql.NullTime
		duration    sql.NullInt64
		notes       sql.NullString
		authorID    sql.NullString
	)
	err := row.Scan(
		&entry.ID,
		&entry.ContractID,
		&entry.Stage,
		&entry.StartedAt,
		&completedAt,
		&duration,
		&notes,
		&authorID,
	)
	if err != nil {
		return Entry{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		entry.CompletedAt = &t
	}
	if duration.Valid {
		d := duration.Int64
		entry.DurationSeconds = &d
	}
	if notes.Valid {
		entry.Notes = notes.String
	}
	if authorID.Valid {
		entry.AuthorID = authorID.String
	}
	return entry, nil
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

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
