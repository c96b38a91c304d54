package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
)

// CreateConversation creates the conversation and its participant rows in
// one transaction. The creator is always a participant.
func (s *Storage) CreateConversation(ctx context.Context, orgID, creatorID string, input models.ConversationInput) (*models.Conversation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var conv models.Conversation
	err = tx.QueryRowContext(ctx, `
		INSERT INTO conversations (org_id, topic, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, org_id, topic, created_by, created_at
	`, orgID, input.Topic, creatorID).
		Scan(&conv.ID, &conv.OrgID, &conv.Topic, &conv.CreatedBy, &conv.CreatedAt)
	if err != nil {
		return nil, err
	}

	participants := append([]string{creatorID}, input.Participants...)
	seen := make(map[string]bool, len(participants))
	for _, userID := range participants {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		// Participants must belong to the same org.
		res, err := tx.ExecContext(ctx, `
			INSERT INTO conversation_participants (conversation_id, user_id)
			SELECT $1, u.id FROM users u WHERE u.id = $2 AND u.org_id = $3
		`, conv.ID, userID, orgID)
		if err != nil {
			return nil, err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return nil, ErrUserNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *Storage) ListConversations(ctx context.Context, orgID, userID string) ([]models.Conversation, error) {
	conversations := make([]models.Conversation, 0)
	query := `
		SELECT c.id, c.org_id, c.topic, c.created_by, c.created_at
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		WHERE c.org_id = $1 AND p.user_id = $2
		ORDER BY c.created_at DESC
	`
	err := s.db.SelectContext(ctx, &conversations, query, orgID, userID)
	return conversations, err
}

// IsParticipant reports whether a user belongs to a conversation in their org.
func (s *Storage) IsParticipant(ctx context.Context, orgID, conversationID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1
		FROM conversation_participants p
		JOIN conversations c ON c.id = p.conversation_id
		WHERE p.conversation_id = $1 AND p.user_id = $2 AND c.org_id = $3
	`, conversationID, userID, orgID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) ListParticipants(ctx context.Context, conversationID string) ([]string, error) {
	ids := make([]string, 0)
	err := s.db.SelectContext(ctx, &ids, `
		SELECT user_id FROM conversation_participants WHERE conversation_id = $1
	`, conversationID)
	return ids, err
}

func (s *Storage) CreateMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error) {
	var msg models.Message
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, sender_id, body, created_at
	`, conversationID, senderID, body).
		Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Storage) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	messages := make([]models.Message, 0)
	err := s.db.SelectContext(ctx, &messages, `
		SELECT id, conversation_id, sender_id, body, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, conversationID, limit)
	return messages, err
}

func (s *Storage) MarkConversationRead(ctx context.Context, conversationID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE conversation_participants
		SET last_read_at = NOW()
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotParticipant
	}
	return nil
}

func (s *Storage) UnreadCounts(ctx context.Context, orgID, userID string) ([]models.UnreadCount, error) {
	counts := make([]models.UnreadCount, 0)
	query := `
		SELECT p.conversation_id,
			COUNT(m.id) AS count
		FROM conversation_participants p
		JOIN conversations c ON c.id = p.conversation_id
		LEFT JOIN messages m ON m.conversation_id = p.conversation_id
			AND (p.last_read_at IS NULL OR m.created_at > p.last_read_at)
			AND (m.sender_id IS NULL OR m.sender_id <> p.user_id)
		WHERE p.user_id = $1 AND c.org_id = $2
		GROUP BY p.conversation_id
	`
	err := s.db.SelectContext(ctx, &counts, query, userID, orgID)
	return counts, err
}
