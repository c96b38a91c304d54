package handlers

import (
	"net/http"

	"planivo-backend/internal/models"
)

// GetOrganization returns the caller's organization
// @Summary Get own organization
// @Tags organizations
// @Produce json
// @Success 200 {object} models.Organization
// @Security BearerAuth
// @Router /org [get]
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.store.GetOrganization(r.Context(), identity(r).OrgID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, org)
}

// UpdateOrganization renames the caller's organization
// @Summary Update own organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param input body models.UpdateOrganizationInput true "Organization fields"
// @Success 200 {object} models.Organization
// @Security BearerAuth
// @Router /org [put]
func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateOrganizationInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	org, err := h.store.UpdateOrganization(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "organization.updated", "organization", org.ID,
		map[string]string{"name": org.Name})
	respondJSON(w, http.StatusOK, org)
}
