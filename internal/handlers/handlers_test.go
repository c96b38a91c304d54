package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"planivo-backend/internal/storage"
)

func TestStorageErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"schedule not found", storage.ErrScheduleNotFound, http.StatusNotFound},
		{"user not found", storage.ErrUserNotFound, http.StatusNotFound},
		{"share token not found", storage.ErrShareTokenNotFound, http.StatusNotFound},
		{"slug taken", storage.ErrSlugTaken, http.StatusConflict},
		{"email taken", storage.ErrEmailTaken, http.StatusConflict},
		{"bad transition", storage.ErrBadTransition, http.StatusConflict},
		{"vacation decided", storage.ErrVacationDecided, http.StatusConflict},
		{"training full", storage.ErrTrainingFull, http.StatusConflict},
		{"not publishable", storage.ErrScheduleNotPublishable, http.StatusConflict},
		{"not participant", storage.ErrNotParticipant, http.StatusForbidden},
		{"token revoked", storage.ErrShareTokenRevoked, http.StatusGone},
		{"token expired", storage.ErrShareTokenExpired, http.StatusGone},
		{"token used up", storage.ErrShareTokenUsedUp, http.StatusGone},
		{"unknown", assertableErr("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			storageError(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }

func TestStorageErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	storageError(rec, assertableErr("pq: relation users does not exist"))
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestMessagePreview(t *testing.T) {
	assert.Equal(t, "short", messagePreview("short"))

	long := strings.Repeat("a", 300)
	assert.Len(t, messagePreview(long), 140)

	// Multi-byte runes are not split.
	wide := strings.Repeat("ü", 200)
	preview := messagePreview(wide)
	assert.Equal(t, 140, len([]rune(preview)))
	assert.True(t, strings.HasSuffix(preview, "ü"))
}

func TestDecodeOptional(t *testing.T) {
	var dst struct {
		On string `json:"on"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, decodeOptional(req, &dst))
	assert.Empty(t, dst.On)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"on":"2026-01-01"}`))
	assert.NoError(t, decodeOptional(req, &dst))
	assert.Equal(t, "2026-01-01", dst.On)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	assert.Error(t, decodeOptional(req, &dst))
}
