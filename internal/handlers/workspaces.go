package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

// ListWorkspaces lists the organization's workspaces
// @Summary List workspaces
// @Tags workspaces
// @Produce json
// @Success 200 {array} models.Workspace
// @Security BearerAuth
// @Router /workspaces [get]
func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.store.ListWorkspaces(r.Context(), identity(r).OrgID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, workspaces)
}

// CreateWorkspace creates a workspace
// @Summary Create workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Param input body models.WorkspaceInput true "Workspace fields"
// @Success 201 {object} models.Workspace
// @Failure 409 {string} string "Slug already taken"
// @Security BearerAuth
// @Router /workspaces [post]
func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var input models.WorkspaceInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	workspace, err := h.store.CreateWorkspace(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "workspace.created", "workspace", workspace.ID,
		map[string]string{"name": workspace.Name})
	respondJSON(w, http.StatusCreated, workspace)
}

func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	workspace, err := h.store.GetWorkspace(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, workspace)
}

func (h *Handler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	var input models.WorkspaceInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	workspace, err := h.store.UpdateWorkspace(r.Context(), id.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "workspace.updated", "workspace", workspace.ID, nil)
	respondJSON(w, http.StatusOK, workspace)
}

func (h *Handler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	workspaceID := chi.URLParam(r, "id")
	if err := h.store.DeleteWorkspace(r.Context(), id.OrgID, workspaceID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "workspace.deleted", "workspace", workspaceID, nil)
	w.WriteHeader(http.StatusNoContent)
}
