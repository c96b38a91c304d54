package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"planivo-backend/internal/models"
)

var (
	ErrShareTokenNotFound     = errors.New("share token not found")
	ErrShareTokenRevoked      = errors.New("share token revoked")
	ErrShareTokenExpired      = errors.New("share token expired")
	ErrShareTokenUsedUp       = errors.New("share token usage limit reached")
	ErrScheduleNotPublishable = errors.New("only published schedules can be shared")
)

const (
	ShareTokenPrefix      = "plv_st_"
	ShareTokenLength      = 32
	shareTokenPrefixChars = 12
)

type shareTokenRow struct {
	ID          string
	ScheduleID  string
	TokenPrefix string
	TokenHash   string
	ExpiresAt   *time.Time
	MaxUses     sql.NullInt64
	UseCount    int
	CreatedBy   sql.NullString
	CreatedAt   time.Time
	LastUsedAt  *time.Time
	RevokedAt   *time.Time
}

func (s *Storage) CreateShareToken(ctx context.Context, orgID, scheduleID, userID string, input models.CreateShareTokenInput) (*models.CreateShareTokenResponse, error) {
	sched, err := s.GetSchedule(ctx, orgID, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status != models.ScheduleStatusPublished {
		return nil, ErrScheduleNotPublishable
	}

	token, prefix, hash, err := GenerateShareToken()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO schedule_share_tokens (
			schedule_id, token_hash, token_prefix, expires_at, max_uses,
			use_count, created_by, created_at, last_used_at, revoked_at
		)
		VALUES ($1, $2, $3, $4, $5, 0, $6, NOW(), NULL, NULL)
		RETURNING id, schedule_id, token_prefix, expires_at, max_uses,
			use_count, created_by, created_at, last_used_at, revoked_at
	`

	row := shareTokenRow{}
	err = s.db.QueryRowContext(ctx, query,
		scheduleID, hash, prefix, input.ExpiresAt, input.MaxUses, nullIfEmpty(userID),
	).Scan(
		&row.ID, &row.ScheduleID, &row.TokenPrefix, &row.ExpiresAt,
		&row.MaxUses, &row.UseCount, &row.CreatedBy, &row.CreatedAt,
		&row.LastUsedAt, &row.RevokedAt,
	)
	if err != nil {
		return nil, err
	}

	return &models.CreateShareTokenResponse{
		ShareToken: mapShareTokenRow(row),
		Token:      token,
	}, nil
}

func (s *Storage) GetShareTokens(ctx context.Context, orgID, scheduleID string) ([]models.ScheduleShareToken, error) {
	query := `
		SELECT t.id, t.schedule_id, t.token_prefix, t.token_hash, t.expires_at,
			t.max_uses, t.use_count, t.created_by, t.created_at, t.last_used_at, t.revoked_at
		FROM schedule_share_tokens t
		JOIN schedules s ON s.id = t.schedule_id` + orgScheduleJoin + `
		WHERE t.schedule_id = $1 AND w.org_id = $2
		ORDER BY t.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, scheduleID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.ScheduleShareToken, 0)
	for rows.Next() {
		var row shareTokenRow
		if err := rows.Scan(
			&row.ID, &row.ScheduleID, &row.TokenPrefix, &row.TokenHash,
			&row.ExpiresAt, &row.MaxUses, &row.UseCount, &row.CreatedBy,
			&row.CreatedAt, &row.LastUsedAt, &row.RevokedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, mapShareTokenRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// RedeemShareToken validates a plaintext token and returns it with its use
// count already incremented. Lookup is by prefix so the bcrypt comparison
// only runs against matching candidates.
func (s *Storage) RedeemShareToken(ctx context.Context, token string) (*models.ScheduleShareToken, error) {
	if len(token) < shareTokenPrefixChars {
		return nil, ErrShareTokenNotFound
	}

	prefix := token[:shareTokenPrefixChars]
	query := `
		SELECT id, schedule_id, token_prefix, token_hash, expires_at,
			max_uses, use_count, created_by, created_at, last_used_at, revoked_at
		FROM schedule_share_tokens
		WHERE token_prefix = $1
	`

	rows, err := s.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row shareTokenRow
		if err := rows.Scan(
			&row.ID, &row.ScheduleID, &row.TokenPrefix, &row.TokenHash,
			&row.ExpiresAt, &row.MaxUses, &row.UseCount, &row.CreatedBy,
			&row.CreatedAt, &row.LastUsedAt, &row.RevokedAt,
		); err != nil {
			return nil, err
		}

		if !ValidateShareTokenHash(token, row.TokenHash) {
			continue
		}

		if row.RevokedAt != nil {
			return nil, ErrShareTokenRevoked
		}
		if row.ExpiresAt != nil && row.ExpiresAt.Before(time.Now()) {
			return nil, ErrShareTokenExpired
		}
		if row.MaxUses.Valid && row.UseCount >= int(row.MaxUses.Int64) {
			return nil, ErrShareTokenUsedUp
		}

		if err := s.incrementShareTokenUsage(ctx, row.ID); err != nil {
			return nil, err
		}
		row.UseCount++

		st := mapShareTokenRow(row)
		return &st, nil
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nil, ErrShareTokenNotFound
}

func (s *Storage) incrementShareTokenUsage(ctx context.Context, tokenID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE schedule_share_tokens
		SET use_count = use_count + 1, last_used_at = NOW()
		WHERE id = $1
	`, tokenID)
	return err
}

// RevokeShareToken marks a token revoked and returns its prefix so
// callers can drop any cached schedule payload for it.
func (s *Storage) RevokeShareToken(ctx context.Context, orgID, tokenID string) (string, error) {
	var prefix string
	err := s.db.QueryRowContext(ctx, `
		UPDATE schedule_share_tokens t
		SET revoked_at = NOW()
		FROM schedules s, departments d, facilities f, workspaces w
		WHERE t.id = $1 AND s.id = t.schedule_id AND d.id = s.department_id
			AND f.id = d.facility_id AND w.id = f.workspace_id AND w.org_id = $2
			AND t.revoked_at IS NULL
		RETURNING t.token_prefix
	`, tokenID, orgID).Scan(&prefix)
	if err == sql.ErrNoRows {
		return "", ErrShareTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return prefix, nil
}

// PurgeShareTokens deletes tokens that are revoked, expired, or used up.
func (s *Storage) PurgeShareTokens(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM schedule_share_tokens
		WHERE revoked_at IS NOT NULL
			OR (expires_at IS NOT NULL AND expires_at < NOW())
			OR (max_uses IS NOT NULL AND use_count >= max_uses)
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func GenerateShareToken() (token string, prefix string, hash string, err error) {
	bytes := make([]byte, ShareTokenLength)
	if _, err = rand.Read(bytes); err != nil {
		return "", "", "", err
	}

	token = ShareTokenPrefix + hex.EncodeToString(bytes)
	prefix = token[:shareTokenPrefixChars]

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", err
	}

	return token, prefix, string(hashBytes), nil
}

func ValidateShareTokenHash(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

func mapShareTokenRow(row shareTokenRow) models.ScheduleShareToken {
	var maxUses *int
	if row.MaxUses.Valid {
		value := int(row.MaxUses.Int64)
		maxUses = &value
	}

	return models.ScheduleShareToken{
		ID:          row.ID,
		ScheduleID:  row.ScheduleID,
		TokenPrefix: row.TokenPrefix,
		TokenHash:   row.TokenHash,
		ExpiresAt:   row.ExpiresAt,
		MaxUses:     maxUses,
		UseCount:    row.UseCount,
		CreatedBy:   row.CreatedBy.String,
		CreatedAt:   row.CreatedAt,
		LastUsedAt:  row.LastUsedAt,
		RevokedAt:   row.RevokedAt,
	}
}
