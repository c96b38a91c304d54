package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"planivo-backend/internal/models"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context(), identity(r).OrgID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// CreateUser provisions an account with a temporary password
// @Summary Create user
// @Description Creates an account in the caller's organization and emails an invitation with a temporary password
// @Tags admin
// @Accept json
// @Produce json
// @Param input body models.CreateUserInput true "User fields"
// @Success 201 {object} models.User
// @Failure 409 {string} string "Email already taken"
// @Security BearerAuth
// @Router /admin/users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input models.CreateUserInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	id := identity(r)
	user := &models.User{
		OrgID:        id.OrgID,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		storageError(w, err)
		return
	}

	h.email.SendInvitation(user.Email, user.FirstName, tempPassword)
	h.recorder.Record(id.OrgID, id.UserID, "user.created", "user", user.ID,
		map[string]string{"email": user.Email, "role": user.Role})
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetOrgUser(r.Context(), identity(r).OrgID, chi.URLParam(r, "id"))
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateUserInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	user, err := h.store.UpdateUser(r.Context(), id.OrgID, chi.URLParam(r, "id"), input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "user.updated", "user", user.ID, nil)
	respondJSON(w, http.StatusOK, user)
}

// DeleteUser removes an account and everything hanging off it
// @Summary Delete user
// @Description Cascading deletion: detaches messages, tasks, vacation decisions, shifts, staff links, and share tokens before removing the account
// @Tags admin
// @Produce json
// @Success 204
// @Failure 404 {string} string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	userID := chi.URLParam(r, "id")

	if userID == id.UserID {
		http.Error(w, "Cannot delete own account", http.StatusConflict)
		return
	}

	if err := h.store.DeleteUserCascade(r.Context(), id.OrgID, userID); err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "user.deleted", "user", userID, nil)
	w.WriteHeader(http.StatusNoContent)
}

func generateTempPassword() (string, error) {
	bytes := make([]byte, 12)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
