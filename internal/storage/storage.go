package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const userInOrgQuery = `SELECT 1 FROM users WHERE id = $1 AND org_id = $2`

const staffInOrgQuery = `
	SELECT 1
	FROM staff_members sm
	JOIN departments d ON d.id = sm.department_id
	JOIN facilities f ON f.id = d.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
	WHERE sm.id = $1 AND w.org_id = $2
`

// userInOrg verifies a body-supplied user id belongs to the caller's org.
func userInOrg(ctx context.Context, q queryer, orgID, userID string) error {
	var one int
	err := q.QueryRowContext(ctx, userInOrgQuery, userID, orgID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	return err
}

// staffInOrg verifies a body-supplied staff member id belongs to the
// caller's org.
func staffInOrg(ctx context.Context, q queryer, orgID, staffMemberID string) error {
	var one int
	err := q.QueryRowContext(ctx, staffInOrgQuery, staffMemberID, orgID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrStaffNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
