package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

func (h *Handler) ListTrainingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListTrainingEvents(r.Context(), identity(r).OrgID,
		r.URL.Query().Get("facility_id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *Handler) CreateTrainingEvent(w http.ResponseWriter, r *http.Request) {
	var input models.TrainingEventInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	event, err := h.store.CreateTrainingEvent(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "training.created", "training_event", event.ID,
		map[string]string{"title": event.Title})
	respondJSON(w, http.StatusCreated, event)
}

func (h *Handler) GetTrainingEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.store.GetTrainingEvent(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.store.ListAttendees(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, attendees)
}

// RegisterAttendee registers a staff member for a training event
// @Summary Register training attendee
// @Tags trainings
// @Accept json
// @Produce json
// @Param input body object true "Staff member {\"staff_member_id\": \"...\"}"
// @Success 201 {object} map[string]string
// @Failure 409 {string} string "Training event full or already registered"
// @Security BearerAuth
// @Router /trainings/{id}/attendees [post]
func (h *Handler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StaffMemberID string `json:"staff_member_id" validate:"required,uuid4"`
	}
	if err := h.decodeValid(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	eventID := chi.URLParam(r, "id")
	if err := h.store.RegisterAttendee(r.Context(), id.OrgID, eventID, body.StaffMemberID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "training.registered", "training_event", eventID,
		map[string]string{"staff_member_id": body.StaffMemberID})
	respondJSON(w, http.StatusCreated, map[string]string{
		"training_event_id": eventID,
		"staff_member_id":   body.StaffMemberID,
	})
}

func (h *Handler) UnregisterAttendee(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	eventID := chi.URLParam(r, "id")
	staffID := chi.URLParam(r, "staffID")
	if err := h.store.UnregisterAttendee(r.Context(), id.OrgID, eventID, staffID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "training.unregistered", "training_event", eventID,
		map[string]string{"staff_member_id": staffID})
	w.WriteHeader(http.StatusNoContent)
}
