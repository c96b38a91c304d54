package models

import "time"

// AuditEvent is the wire format for audit entries published to JetStream.
type AuditEvent struct {
	V            int               `msgpack:"v"`
	TS           int64             `msgpack:"ts"`
	OrgID        string            `msgpack:"org_id"`
	ActorID      string            `msgpack:"actor_id"`
	Action       string            `msgpack:"action"`
	ResourceType string            `msgpack:"resource_type"`
	ResourceID   string            `msgpack:"resource_id"`
	Metadata     map[string]string `msgpack:"metadata"`
}

// AuditLog is the persisted form of an audit event.
type AuditLog struct {
	ID           string    `json:"id" db:"id"`
	OrgID        string    `json:"org_id" db:"org_id"`
	ActorID      *string   `json:"actor_id,omitempty" db:"actor_id"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   string    `json:"resource_id" db:"resource_id"`
	Metadata     []byte    `json:"metadata" db:"metadata"`
	RecordedAt   time.Time `json:"recorded_at" db:"recorded_at"`
}
