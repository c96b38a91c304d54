package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.store.ListDepartments(r.Context(), identity(r).OrgID,
		r.URL.Query().Get("facility_id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, departments)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var input models.DepartmentInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	department, err := h.store.CreateDepartment(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "department.created", "department", department.ID,
		map[string]string{"name": department.Name})
	respondJSON(w, http.StatusCreated, department)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	department, err := h.store.GetDepartment(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, department)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var input models.DepartmentInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	department, err := h.store.UpdateDepartment(r.Context(), id.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "department.updated", "department", department.ID, nil)
	respondJSON(w, http.StatusOK, department)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	departmentID := chi.URLParam(r, "id")
	if err := h.store.DeleteDepartment(r.Context(), id.OrgID, departmentID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "department.deleted", "department", departmentID, nil)
	w.WriteHeader(http.StatusNoContent)
}
