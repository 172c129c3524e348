package notes

import (
	"context"
	"database/sql"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a note, provided the contract belongs to the caller's
// organization.
func (r *PGRepo) Create(ctx context.Context, scope tenant.Scope, note LegalNote) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO legal_notes (id, contract_id, author_id, author_name, body, created_at)
SELECT $1, $2, $3, $4, $5, $6
WHERE EXISTS (SELECT 1 FROM contracts WHERE id = $2 AND organization_id = $7)`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		note.ID,
		note.ContractID,
		note.AuthorID,
		nullStr(note.AuthorName),
		note.Body,
		note.CreatedAt,
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

// ListByContract returns all notes for a contract, newest first.
func (r *PGRepo) ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]LegalNote, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	const query = `
SELECT n.id, n.contract_id, n.author_id, n.author_name, n.body, n.created_at
FROM legal_notes n
JOIN contracts c ON c.id = n.contract_id
WHERE n.contract_id = $1 AND c.organization_id = $2
ORDER BY n.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, contractID, scope.OrgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LegalNote
	for rows.Next() {
		var (
			note       LegalNote
			authorName sql.NullString
		)
		err := rows.Scan(&note.ID, &note.ContractID, &note.AuthorID, &authorName, &note.Body, &note.CreatedAt)
		if err != nil {
			return nil, err
		}
		if authorName.Valid {
			note.AuthorName = authorName.String
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
