package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planivo-backend/internal/models"
)

func TestEventToLog(t *testing.T) {
	ts := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	event := models.AuditEvent{
		V:            1,
		TS:           ts.UnixMilli(),
		OrgID:        "org-1",
		ActorID:      "user-1",
		Action:       "schedule.published",
		ResourceType: "schedule",
		ResourceID:   "sched-1",
		Metadata:     map[string]string{"name": "Week 37"},
	}

	entry, err := EventToLog(event)
	require.NoError(t, err)

	assert.Equal(t, "org-1", entry.OrgID)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "user-1", *entry.ActorID)
	assert.Equal(t, "schedule.published", entry.Action)
	assert.Equal(t, "schedule", entry.ResourceType)
	assert.Equal(t, "sched-1", entry.ResourceID)
	assert.True(t, entry.RecordedAt.Equal(ts))

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(entry.Metadata, &metadata))
	assert.Equal(t, "Week 37", metadata["name"])
}

func TestEventToLogAnonymousActor(t *testing.T) {
	entry, err := EventToLog(models.AuditEvent{
		OrgID:  "org-1",
		Action: "billing.subscription_activated",
	})
	require.NoError(t, err)
	assert.Nil(t, entry.ActorID)
	// Zero timestamp falls back to receipt time.
	assert.WithinDuration(t, time.Now(), entry.RecordedAt, time.Minute)
}

func TestEventToLogInvalid(t *testing.T) {
	_, err := EventToLog(models.AuditEvent{Action: "x"})
	assert.Error(t, err)

	_, err = EventToLog(models.AuditEvent{OrgID: "org-1"})
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "planivo.org-1.audit.user.created", Subject("org-1", "user.created"))
}
