package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconcilePresenceMarksLapsedUsersOffline(t *testing.T) {
	rec := &statusRecorder{
		statuses: map[string]string{
			"user-1": "online",
			"user-2": "online",
			"user-3": "offline",
		},
		present: map[string]int64{
			"user-2": time.Now().UnixMilli(),
		},
	}

	reconcilePresenceOnce(rec)

	assert.Equal(t, "offline", rec.statuses["user-1"], "lapsed presence key should flip the user offline")
	assert.Equal(t, "online", rec.statuses["user-2"], "live presence key should keep the user online")
	assert.Equal(t, "offline", rec.statuses["user-3"])
}
