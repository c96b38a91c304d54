package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planivo-backend/internal/models"
)

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.store.ListTasks(r.Context(), identity(r).OrgID,
		q.Get("department_id"), q.Get("status"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	task, err := h.store.CreateTask(r.Context(), id.OrgID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "task.created", "task", task.ID,
		map[string]string{"title": task.Title})
	respondJSON(w, http.StatusCreated, task)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.GetTask(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update; omitted fields are untouched.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateTaskInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	task, err := h.store.UpdateTask(r.Context(), id.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "task.updated", "task", task.ID,
		map[string]string{"status": task.Status})
	respondJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	taskID := chi.URLParam(r, "id")
	if err := h.store.DeleteTask(r.Context(), id.OrgID, taskID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "task.deleted", "task", taskID, nil)
	w.WriteHeader(http.StatusNoContent)
}
