package companies

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// UpsertProfile inserts or refreshes the profile row for an email.
func (r *PGRepo) UpsertProfile(ctx context.Context, profile Profile) (Profile, error) {
	const query = `
INSERT INTO profiles (id, email, full_name, avatar_url, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET full_name = EXCLUDED.full_name, avatar_url = EXCLUDED.avatar_url
RETURNING id, email, full_name, avatar_url, created_at`

	row := r.DB.QueryRowContext(
		ctx,
		query,
		profile.ID,
		profile.Email,
		nullStr(profile.FullName),
		nullStr(profile.AvatarURL),
		profile.CreatedAt,
	)

	var (
		out       Profile
		fullName  sql.NullString
		avatarURL sql.NullString
	)
	if err := row.Scan(&out.ID, &out.Email, &fullName, &avatarURL, &out.CreatedAt); err != nil {
		return Profile{}, err
	}
	if fullName.Valid {
		out.FullName = fullName.String
	}
	if avatarURL.Valid {
		out.AvatarURL = avatarURL.String
	}
	return out, nil
}

// MembershipByUser returns the user's company membership.
func (r *PGRepo) MembershipByUser(ctx context.Context, userID string) (Membership, error) {
	const query = `
SELECT company_id, user_id, role, created_at
FROM company_users
WHERE user_id = $1
ORDER BY created_at ASC
LIMIT 1`

	var m Membership
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&m.CompanyID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Membership{}, ErrNoMembership
		}
		return Membership{}, err
	}
	return m, nil
}

// GetCompany returns one company.
func (r *PGRepo) GetCompany(ctx context.Context, companyID string) (Company, error) {
	const query = `SELECT id, name, industry, created_at FROM companies WHERE id = $1`

	var (
		company  Company
		industry sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, companyID).Scan(&company.ID, &company.Name, &industry, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	if industry.Valid {
		company.Industry = industry.String
	}
	return company, nil
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
