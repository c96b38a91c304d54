package models

import "time"

type Conversation struct {
	ID        string    `json:"id" db:"id"`
	OrgID     string    `json:"org_id" db:"org_id"`
	Topic     string    `json:"topic" db:"topic"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ConversationInput struct {
	Topic        string   `json:"topic" validate:"required,min=1,max=255"`
	Participants []string `json:"participants" validate:"required,min=1,dive,uuid4"`
}

type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	SenderID       *string   `json:"sender_id,omitempty" db:"sender_id"`
	Body           string    `json:"body" db:"body"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type MessageInput struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

type UnreadCount struct {
	ConversationID string `json:"conversation_id" db:"conversation_id"`
	Count          int    `json:"count" db:"count"`
}

// MessageNotification is the wire format pushed to recipients over the
// websocket hub and the per-user NATS subject.
type MessageNotification struct {
	ConversationID string    `json:"conversation_id" msgpack:"conversation_id"`
	MessageID      string    `json:"message_id" msgpack:"message_id"`
	SenderID       string    `json:"sender_id" msgpack:"sender_id"`
	Preview        string    `json:"preview" msgpack:"preview"`
	SentAt         time.Time `json:"sent_at" msgpack:"sent_at"`
}
