package audit

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"planivo-backend/internal/models"
)

const eventVersion = 1

// Recorder publishes audit events to the JetStream audit stream. A nil
// Recorder drops events, so handlers can record unconditionally.
type Recorder struct {
	js nats.JetStreamContext
}

func NewRecorder(js nats.JetStreamContext) *Recorder {
	return &Recorder{js: js}
}

// Subject builds the per-org audit subject for an action.
func Subject(orgID, action string) string {
	return fmt.Sprintf("planivo.%s.audit.%s", orgID, action)
}

// Record publishes an audit event. Failures are logged, never propagated:
// audit must not fail the request that triggered it.
func (r *Recorder) Record(orgID, actorID, action, resourceType, resourceID string, metadata map[string]string) {
	if r == nil || r.js == nil {
		return
	}

	event := models.AuditEvent{
		V:            eventVersion,
		TS:           time.Now().UnixMilli(),
		OrgID:        orgID,
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
	}

	payload, err := msgpack.Marshal(&event)
	if err != nil {
		log.Printf("ERROR audit marshal: %v", err)
		return
	}

	if _, err := r.js.PublishAsync(Subject(orgID, action), payload); err != nil {
		log.Printf("ERROR audit publish: %v", err)
	}
}
