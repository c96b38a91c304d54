package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

const userColumns = `id, org_id, email, password_hash, role, first_name, last_name, is_active, created_at, last_login_at`

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (org_id, email, password_hash, role, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		user.OrgID, user.Email, user.PasswordHash, user.Role,
		user.FirstName, user.LastName, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetOrgUser(ctx context.Context, orgID, id string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND org_id = $2`
	if err := s.db.GetContext(ctx, &user, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context, orgID string) ([]models.User, error) {
	users := make([]models.User, 0)
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 ORDER BY created_at`
	err := s.db.SelectContext(ctx, &users, query, orgID)
	return users, err
}

func (s *Storage) UpdateUser(ctx context.Context, orgID, id string, input models.UpdateUserInput) (*models.User, error) {
	query := `
		UPDATE users
		SET role = COALESCE($3, role),
			first_name = COALESCE($4, first_name),
			last_name = COALESCE($5, last_name),
			is_active = COALESCE($6, is_active)
		WHERE id = $1 AND org_id = $2
		RETURNING ` + userColumns + `
	`

	var user models.User
	err := s.db.QueryRowContext(ctx, query, id, orgID,
		input.Role, input.FirstName, input.LastName, input.IsActive,
	).Scan(
		&user.ID, &user.OrgID, &user.Email, &user.PasswordHash, &user.Role,
		&user.FirstName, &user.LastName, &user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) TouchUserLogin(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (s *Storage) CountActiveUsers(ctx context.Context, orgID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE org_id = $1 AND is_active`, orgID)
	return count, err
}
