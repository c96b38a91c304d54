package models

import "time"

// ScheduleShareToken is a hashed public-link token granting read-only
// access to a published schedule. The plaintext token is only returned
// once, at creation time.
type ScheduleShareToken struct {
	ID          string     `json:"id"`
	ScheduleID  string     `json:"schedule_id"`
	TokenPrefix string     `json:"token_prefix"`
	TokenHash   string     `json:"-"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxUses     *int       `json:"max_uses,omitempty"`
	UseCount    int        `json:"use_count"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

type CreateShareTokenInput struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
}

type CreateShareTokenResponse struct {
	ShareToken ScheduleShareToken `json:"share_token"`
	Token      string             `json:"token"`
}
