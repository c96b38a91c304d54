package storage

import (
	"context"
	"fmt"
)

// cascadeStep is one statement of the user-deletion unwind. Each statement
// takes the user id as $1. The order satisfies the foreign keys pointing at
// users; it must be revisited whenever a new table references users.
type cascadeStep struct {
	name  string
	query string
}

var userCascadeSteps = []cascadeStep{
	{
		name:  "detach sent messages",
		query: `UPDATE messages SET sender_id = NULL WHERE sender_id = $1`,
	},
	{
		name:  "leave conversations",
		query: `DELETE FROM conversation_participants WHERE user_id = $1`,
	},
	{
		name: "drop empty conversations",
		query: `DELETE FROM conversations c
			WHERE c.created_by = $1
			AND NOT EXISTS (SELECT 1 FROM conversation_participants p WHERE p.conversation_id = c.id)`,
	},
	{
		name:  "reassign created conversations",
		query: `UPDATE conversations SET created_by = NULL WHERE created_by = $1`,
	},
	{
		name: "unassign tasks",
		query: `UPDATE tasks SET assignee_id = NULL
			WHERE assignee_id IN (SELECT id FROM staff_members WHERE user_id = $1)`,
	},
	{
		name:  "detach vacation decisions",
		query: `UPDATE vacations SET decided_by = NULL WHERE decided_by = $1`,
	},
	{
		name: "delete shifts of linked staff record",
		query: `DELETE FROM shifts
			WHERE staff_member_id IN (SELECT id FROM staff_members WHERE user_id = $1)`,
	},
	{
		name:  "unlink staff record",
		query: `UPDATE staff_members SET user_id = NULL WHERE user_id = $1`,
	},
	{
		name:  "detach share tokens",
		query: `UPDATE schedule_share_tokens SET created_by = NULL WHERE created_by = $1`,
	},
	{
		name:  "detach audit entries",
		query: `UPDATE audit_logs SET actor_id = NULL WHERE actor_id = $1`,
	},
	{
		name:  "delete user",
		query: `DELETE FROM users WHERE id = $1`,
	},
}

// UserCascadeStepNames exposes the unwind order for tests and diagnostics.
func UserCascadeStepNames() []string {
	names := make([]string, len(userCascadeSteps))
	for i, step := range userCascadeSteps {
		names[i] = step.name
	}
	return names
}

// DeleteUserCascade removes a user account and unwinds every reference to
// it in a single transaction. Returns ErrUserNotFound when the account does
// not exist in the given org.
func (s *Storage) DeleteUserCascade(ctx context.Context, orgID, userID string) error {
	if _, err := s.GetOrgUser(ctx, orgID, userID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, step := range userCascadeSteps {
		if _, err := tx.ExecContext(ctx, step.query, userID); err != nil {
			return fmt.Errorf("cascade %s: %w", step.name, err)
		}
	}

	return tx.Commit()
}
