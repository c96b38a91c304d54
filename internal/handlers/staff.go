package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
	"planivo-backend/internal/rpc"
)

func (h *Handler) ListStaffMembers(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store.ListStaffMembers(r.Context(), identity(r).OrgID,
		r.URL.Query().Get("department_id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

func (h *Handler) CreateStaffMember(w http.ResponseWriter, r *http.Request) {
	var input models.StaffMemberInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	staff, err := h.store.CreateStaffMember(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "staff.created", "staff_member", staff.ID,
		map[string]string{"position": staff.Position})
	respondJSON(w, http.StatusCreated, staff)
}

func (h *Handler) GetStaffMember(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store.GetStaffMember(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

// GetMyStaffProfile returns the staff record linked to the caller's account
// @Summary Get own staff profile
// @Tags staff
// @Produce json
// @Success 200 {object} models.StaffMember
// @Failure 404 {string} string "No staff record for this account"
// @Security BearerAuth
// @Router /staff/me [get]
func (h *Handler) GetMyStaffProfile(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	staff, err := h.store.GetStaffMemberByUser(r.Context(), id.OrgID, id.UserID)
	if err != nil {
		storageError(w, err)
		return
	}
	if staff == nil {
		http.Error(w, "No staff record for this account", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

func (h *Handler) UpdateStaffMember(w http.ResponseWriter, r *http.Request) {
	var input models.StaffMemberInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	staff, err := h.store.UpdateStaffMember(r.Context(), id.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "staff.updated", "staff_member", staff.ID, nil)
	respondJSON(w, http.StatusOK, staff)
}

// TerminateStaffMember ends an employment record
// @Summary Terminate staff member
// @Tags staff
// @Accept json
// @Produce json
// @Param input body object false "Optional termination date {\"on\": \"2025-12-31\"}"
// @Success 204
// @Security BearerAuth
// @Router /staff/{id}/terminate [post]
func (h *Handler) TerminateStaffMember(w http.ResponseWriter, r *http.Request) {
	on := time.Now()
	var body struct {
		On string `json:"on"`
	}
	// Body is optional; termination defaults to today.
	if err := decodeOptional(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.On != "" {
		parsed, err := time.Parse("2006-01-02", body.On)
		if err != nil {
			http.Error(w, "Invalid termination date", http.StatusBadRequest)
			return
		}
		on = parsed
	}

	id := identity(r)
	staffID := chi.URLParam(r, "id")
	if err := h.store.TerminateStaffMember(r.Context(), id.OrgID, staffID, on); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "staff.terminated", "staff_member", staffID,
		map[string]string{"on": on.Format("2006-01-02")})
	w.WriteHeader(http.StatusNoContent)
}

// GetStaffAvailability reports overlapping shifts and approved vacations
// @Summary Check staff availability
// @Tags staff
// @Produce json
// @Param from query string true "Window start (RFC 3339)"
// @Param to query string true "Window end (RFC 3339)"
// @Success 200 {object} models.AvailabilityResponse
// @Failure 400 {string} string "Invalid window"
// @Security BearerAuth
// @Router /staff/{id}/availability [get]
func (h *Handler) GetStaffAvailability(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "Invalid 'from' timestamp", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "Invalid 'to' timestamp", http.StatusBadRequest)
		return
	}
	if !from.Before(to) {
		http.Error(w, "'from' must precede 'to'", http.StatusBadRequest)
		return
	}

	id := identity(r)
	staffID := chi.URLParam(r, "id")

	// Prefer the shared RPC path; fall back to a direct query when no
	// responder is running.
	if h.rpc != nil {
		resp, err := h.rpc.CheckAvailability(id.OrgID, staffID, from, to)
		if err == nil {
			respondJSON(w, http.StatusOK, resp)
			return
		}
		if !errors.Is(err, rpc.ErrUnavailable) && !errors.Is(err, rpc.ErrTimeout) {
			http.Error(w, "Availability check failed", http.StatusInternalServerError)
			return
		}
		log.Printf("WARN availability RPC fallback: %v", err)
	}

	conflicts, err := h.store.CheckAvailability(r.Context(), id.OrgID, staffID, from, to)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	})
}
