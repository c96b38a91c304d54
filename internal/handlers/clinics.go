package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

func (h *Handler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.store.ListClinics(r.Context(), identity(r).OrgID,
		r.URL.Query().Get("facility_id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, clinics)
}

// CreateClinic creates a clinic and seeds its departments
// @Summary Create clinic
// @Description Picks the closest department template by name and seeds the clinic's departments from it
// @Tags clinics
// @Accept json
// @Produce json
// @Param input body models.ClinicInput true "Clinic fields"
// @Success 201 {object} models.Clinic
// @Security BearerAuth
// @Router /clinics [post]
func (h *Handler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var input models.ClinicInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	clinic, err := h.store.CreateClinic(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "clinic.created", "clinic", clinic.ID,
		map[string]string{"name": clinic.Name, "template": clinic.Template})
	respondJSON(w, http.StatusCreated, clinic)
}

func (h *Handler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.store.GetClinic(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, clinic)
}

func (h *Handler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	clinicID := chi.URLParam(r, "id")
	if err := h.store.DeleteClinic(r.Context(), id.OrgID, clinicID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "clinic.deleted", "clinic", clinicID, nil)
	w.WriteHeader(http.StatusNoContent)
}
