package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

const publicScheduleCacheTTL = 60 * time.Second

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.store.ListSchedules(r.Context(), identity(r).OrgID,
		r.URL.Query().Get("department_id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedules)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var input models.ScheduleInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	schedule, err := h.store.CreateSchedule(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "schedule.created", "schedule", schedule.ID,
		map[string]string{"name": schedule.Name})
	respondJSON(w, http.StatusCreated, schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.store.GetSchedule(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule removes a draft schedule. Published and archived
// schedules are kept for audit.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	scheduleID := chi.URLParam(r, "id")
	if err := h.store.DeleteSchedule(r.Context(), id.OrgID, scheduleID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "schedule.deleted", "schedule", scheduleID, nil)
	w.WriteHeader(http.StatusNoContent)
}

// PublishSchedule transitions a draft schedule to published
// @Summary Publish schedule
// @Tags schedules
// @Produce json
// @Success 200 {object} models.Schedule
// @Failure 409 {string} string "Invalid schedule status transition"
// @Security BearerAuth
// @Router /schedules/{id}/publish [post]
func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	h.transitionSchedule(w, r, models.ScheduleStatusPublished, "schedule.published")
}

// ArchiveSchedule transitions a published schedule to archived
// @Summary Archive schedule
// @Tags schedules
// @Produce json
// @Success 200 {object} models.Schedule
// @Failure 409 {string} string "Invalid schedule status transition"
// @Security BearerAuth
// @Router /schedules/{id}/archive [post]
func (h *Handler) ArchiveSchedule(w http.ResponseWriter, r *http.Request) {
	h.transitionSchedule(w, r, models.ScheduleStatusArchived, "schedule.archived")
}

func (h *Handler) transitionSchedule(w http.ResponseWriter, r *http.Request, to, action string) {
	id := identity(r)
	schedule, err := h.store.TransitionSchedule(r.Context(), id.OrgID, chi.URLParam(r, "id"), to)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, action, "schedule", schedule.ID, nil)
	respondJSON(w, http.StatusOK, schedule)
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.ListShifts(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shifts)
}

// CreateShift assigns a staff member to a schedule slot
// @Summary Create shift
// @Tags schedules
// @Accept json
// @Produce json
// @Param input body models.ShiftInput true "Shift fields"
// @Success 201 {object} models.Shift
// @Failure 409 {string} string "Staff member is not available"
// @Security BearerAuth
// @Router /schedules/{id}/shifts [post]
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var input models.ShiftInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	scheduleID := chi.URLParam(r, "id")

	conflicts, err := h.store.CheckAvailability(r.Context(), id.OrgID,
		input.StaffMemberID, input.StartsAt, input.EndsAt)
	if err != nil {
		storageError(w, err)
		return
	}
	if len(conflicts) > 0 {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     "staff member is not available",
			"conflicts": conflicts,
		})
		return
	}

	shift, err := h.store.CreateShift(r.Context(), id.OrgID, scheduleID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "shift.created", "shift", shift.ID,
		map[string]string{"schedule_id": scheduleID, "staff_member_id": input.StaffMemberID})
	respondJSON(w, http.StatusCreated, shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	shiftID := chi.URLParam(r, "id")
	if err := h.store.DeleteShift(r.Context(), id.OrgID, shiftID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "shift.deleted", "shift", shiftID, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListShareTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.store.GetShareTokens(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokens)
}

// CreateShareToken mints a public link token for a published schedule
// @Summary Create schedule share token
// @Description The plaintext token is only returned once, at creation time
// @Tags schedules
// @Accept json
// @Produce json
// @Param input body models.CreateShareTokenInput false "Expiry and usage limits"
// @Success 201 {object} models.CreateShareTokenResponse
// @Failure 409 {string} string "Only published schedules can be shared"
// @Security BearerAuth
// @Router /schedules/{id}/share-tokens [post]
func (h *Handler) CreateShareToken(w http.ResponseWriter, r *http.Request) {
	var input models.CreateShareTokenInput
	if err := decodeOptional(r, &input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&input); err != nil {
		http.Error(w, "Invalid share token limits", http.StatusBadRequest)
		return
	}

	id := identity(r)
	scheduleID := chi.URLParam(r, "id")
	resp, err := h.store.CreateShareToken(r.Context(), id.OrgID, scheduleID, id.UserID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "share_token.created", "share_token",
		resp.ShareToken.ID, map[string]string{"schedule_id": scheduleID})
	respondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) RevokeShareToken(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	tokenID := chi.URLParam(r, "id")
	prefix, err := h.store.RevokeShareToken(r.Context(), id.OrgID, tokenID)
	if err != nil {
		storageError(w, err)
		return
	}

	if err := h.cache.InvalidatePublicSchedule(prefix); err != nil {
		log.Printf("WARN public schedule cache invalidate: %v", err)
	}

	h.recorder.Record(id.OrgID, id.UserID, "share_token.revoked", "share_token", tokenID, nil)
	w.WriteHeader(http.StatusNoContent)
}

// GetPublicSchedule resolves a share token to a published schedule
// @Summary Public schedule lookup
// @Tags public
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} models.PublicSchedule
// @Failure 404 {string} string "Share token not found"
// @Failure 410 {string} string "Share token revoked, expired, or used up"
// @Router /public/schedules/{token} [get]
func (h *Handler) GetPublicSchedule(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	// Redeem first: the token check and use counting always run. The
	// cache only short-circuits the schedule query itself.
	shareToken, err := h.store.RedeemShareToken(r.Context(), token)
	if err != nil {
		storageError(w, err)
		return
	}

	if cached, err := h.cache.GetPublicSchedule(shareToken.TokenPrefix); err == nil && len(cached) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	schedule, err := h.store.GetPublishedScheduleWithShifts(r.Context(), shareToken.ScheduleID)
	if err != nil {
		storageError(w, err)
		return
	}

	payload, err := json.Marshal(schedule)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.cache.SetPublicSchedule(shareToken.TokenPrefix, payload, publicScheduleCacheTTL); err != nil {
		log.Printf("WARN public schedule cache write: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
