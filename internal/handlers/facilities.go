package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

// ListFacilities lists facilities, optionally filtered by workspace
// @Summary List facilities
// @Tags facilities
// @Produce json
// @Param workspace_id query string false "Filter by workspace"
// @Success 200 {array} models.Facility
// @Security BearerAuth
// @Router /facilities [get]
func (h *Handler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.store.ListFacilities(r.Context(), identity(r).OrgID,
		r.URL.Query().Get("workspace_id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, facilities)
}

func (h *Handler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	var input models.FacilityInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	facility, err := h.store.CreateFacility(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "facility.created", "facility", facility.ID,
		map[string]string{"name": facility.Name})
	respondJSON(w, http.StatusCreated, facility)
}

func (h *Handler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facility, err := h.store.GetFacility(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, facility)
}

func (h *Handler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	var input models.FacilityInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	facility, err := h.store.UpdateFacility(r.Context(), id.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "facility.updated", "facility", facility.ID, nil)
	respondJSON(w, http.StatusOK, facility)
}

func (h *Handler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	facilityID := chi.URLParam(r, "id")
	if err := h.store.DeleteFacility(r.Context(), id.OrgID, facilityID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "facility.deleted", "facility", facilityID, nil)
	w.WriteHeader(http.StatusNoContent)
}
