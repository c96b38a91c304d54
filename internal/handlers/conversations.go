package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vmihailenco/msgpack/v5"

	"planivo-backend/internal/models"
	"planivo-backend/internal/realtime"
	"planivo-backend/internal/storage"
)

const defaultMessagePageSize = 50

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	conversations, err := h.store.ListConversations(r.Context(), id.OrgID, id.UserID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conversations)
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var input models.ConversationInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	conversation, err := h.store.CreateConversation(r.Context(), id.OrgID, id.UserID, input)
	if err != nil {
		storageError(w, err)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "conversation.created", "conversation",
		conversation.ID, map[string]string{"topic": conversation.Topic})
	respondJSON(w, http.StatusCreated, conversation)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	if err := h.requireParticipant(r, conversationID); err != nil {
		storageError(w, err)
		return
	}

	limit := defaultMessagePageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	messages, err := h.store.ListMessages(r.Context(), conversationID, limit)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// CreateMessage posts a message and fans it out to the other
// participants over the websocket hub and their NATS subjects.
// @Summary Send message
// @Tags conversations
// @Accept json
// @Produce json
// @Param input body models.MessageInput true "Message body"
// @Success 201 {object} models.Message
// @Failure 403 {string} string "Not a conversation participant"
// @Security BearerAuth
// @Router /conversations/{id}/messages [post]
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var input models.MessageInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)
	conversationID := chi.URLParam(r, "id")

	if err := h.requireParticipant(r, conversationID); err != nil {
		storageError(w, err)
		return
	}

	message, err := h.store.CreateMessage(r.Context(), conversationID, id.UserID, input.Body)
	if err != nil {
		storageError(w, err)
		return
	}

	h.notifyParticipants(r, conversationID, message)
	respondJSON(w, http.StatusCreated, message)
}

func (h *Handler) notifyParticipants(r *http.Request, conversationID string, message *models.Message) {
	id := identity(r)

	participants, err := h.store.ListParticipants(r.Context(), conversationID)
	if err != nil {
		log.Printf("WARN message fanout list participants: %v", err)
		return
	}

	notification := models.MessageNotification{
		ConversationID: conversationID,
		MessageID:      message.ID,
		SenderID:       id.UserID,
		Preview:        messagePreview(message.Body),
		SentAt:         message.CreatedAt,
	}

	payload, err := msgpack.Marshal(&notification)
	if err != nil {
		log.Printf("WARN message fanout marshal: %v", err)
		return
	}

	for _, userID := range participants {
		if userID == id.UserID {
			continue
		}
		if err := h.hub.Notify(userID, notification); err != nil {
			log.Printf("WARN message fanout websocket to %s: %v", userID, err)
		}
		if h.nc != nil {
			subject := realtime.UserMessageSubject(id.OrgID, userID)
			if err := h.nc.Publish(subject, payload); err != nil {
				log.Printf("WARN message fanout publish to %s: %v", subject, err)
			}
		}
	}
}

func messagePreview(body string) string {
	const max = 140
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max])
}

func (h *Handler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	conversationID := chi.URLParam(r, "id")

	if err := h.requireParticipant(r, conversationID); err != nil {
		storageError(w, err)
		return
	}

	if err := h.store.MarkConversationRead(r.Context(), conversationID, id.UserID); err != nil {
		storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UnreadCounts(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	counts, err := h.store.UnreadCounts(r.Context(), id.OrgID, id.UserID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func (h *Handler) requireParticipant(r *http.Request, conversationID string) error {
	id := identity(r)
	ok, err := h.store.IsParticipant(r.Context(), id.OrgID, conversationID, id.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return storage.ErrNotParticipant
	}
	return nil
}
