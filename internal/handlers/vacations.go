package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vacations, err := h.store.ListVacations(r.Context(), identity(r).OrgID,
		q.Get("staff_member_id"), q.Get("status"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vacations)
}

func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	var input models.VacationInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	vacation, err := h.store.CreateVacation(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "vacation.requested", "vacation", vacation.ID,
		map[string]string{"kind": vacation.Kind})
	respondJSON(w, http.StatusCreated, vacation)
}

func (h *Handler) GetVacation(w http.ResponseWriter, r *http.Request) {
	vacation, err := h.store.GetVacation(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vacation)
}

// ApproveVacation approves a pending vacation request
// @Summary Approve vacation
// @Tags vacations
// @Produce json
// @Success 200 {object} models.Vacation
// @Failure 409 {string} string "Vacation already decided"
// @Security BearerAuth
// @Router /vacations/{id}/approve [post]
func (h *Handler) ApproveVacation(w http.ResponseWriter, r *http.Request) {
	h.decideVacation(w, r, models.VacationStatusApproved, "vacation.approved")
}

// RejectVacation rejects a pending vacation request
// @Summary Reject vacation
// @Tags vacations
// @Produce json
// @Success 200 {object} models.Vacation
// @Failure 409 {string} string "Vacation already decided"
// @Security BearerAuth
// @Router /vacations/{id}/reject [post]
func (h *Handler) RejectVacation(w http.ResponseWriter, r *http.Request) {
	h.decideVacation(w, r, models.VacationStatusRejected, "vacation.rejected")
}

func (h *Handler) decideVacation(w http.ResponseWriter, r *http.Request, status, action string) {
	id := identity(r)
	vacation, err := h.store.DecideVacation(r.Context(), id.OrgID, chi.URLParam(r, "id"), status, id.UserID)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, action, "vacation", vacation.ID, nil)
	respondJSON(w, http.StatusOK, vacation)
}

func (h *Handler) CancelVacation(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	vacationID := chi.URLParam(r, "id")
	if err := h.store.CancelVacation(r.Context(), id.OrgID, vacationID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "vacation.cancelled", "vacation", vacationID, nil)
	w.WriteHeader(http.StatusNoContent)
}
