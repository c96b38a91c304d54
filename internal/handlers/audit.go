package handlers

import (
	"net/http"
	"strconv"
)

const defaultAuditPageSize = 100

// ListAuditLogs queries the organization's audit trail
// @Summary Query audit logs
// @Tags audit
// @Produce json
// @Param action query string false "Filter by action"
// @Param resource_type query string false "Filter by resource type"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} models.AuditLog
// @Security BearerAuth
// @Router /audit [get]
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultAuditPageSize
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	logs, err := h.store.ListAuditLogs(r.Context(), identity(r).OrgID,
		q.Get("action"), q.Get("resource_type"), limit)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
