package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"planivo-backend/internal/auth"
)

const credentialExpiry = 12 * time.Hour

type Handler struct {
	issuer *JWTIssuer
	hub    *Hub
}

func NewHandler(issuer *JWTIssuer, hub *Hub) *Handler {
	return &Handler{issuer: issuer, hub: hub}
}

type credentialsResponse struct {
	CredsContent string    `json:"creds_content"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CreateCredentials issues NATS credentials for the calling user
// @Summary Issue realtime credentials
// @Description Returns short-lived NATS user credentials scoped to the caller's subjects
// @Tags realtime
// @Produce json
// @Success 201 {object} credentialsResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 503 {string} string "Realtime credentials not configured"
// @Security BearerAuth
// @Router /realtime/credentials [post]
func (h *Handler) CreateCredentials(w http.ResponseWriter, r *http.Request) {
	if h.issuer == nil {
		http.Error(w, "Realtime credentials not configured", http.StatusServiceUnavailable)
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	seed, publicKey, err := GenerateUserKeyPair()
	if err != nil {
		http.Error(w, "Failed to generate NKey", http.StatusInternalServerError)
		return
	}

	jwtToken, expiresAt, err := h.issuer.IssueUserJWT(identity.OrgID, identity.UserID, publicKey, credentialExpiry)
	if err != nil {
		http.Error(w, "Failed to issue JWT", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(credentialsResponse{
		CredsContent: BuildCredsFile(jwtToken, seed),
		ExpiresAt:    expiresAt,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Stream upgrades the request to a websocket and registers the connection
// for message notifications until the client goes away.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WARN websocket upgrade: %v", err)
		return
	}

	h.hub.Add(identity.UserID, conn)
	defer h.hub.Remove(identity.UserID, conn)

	// Drain control frames; the server never reads application data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
