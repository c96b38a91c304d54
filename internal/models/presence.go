package models

// PresenceHeartbeat is the msgpack payload browser clients write to
// their key in the PRESENCE KV bucket.
type PresenceHeartbeat struct {
	TS     int64  `msgpack:"ts"`
	Client string `msgpack:"client,omitempty"`
}

type PresenceStatus struct {
	UserID   string `json:"user_id"`
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen_ms,omitempty"`
}
