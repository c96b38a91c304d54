package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planivo-backend/internal/models"
)

func TestHubNotifyWithoutConnection(t *testing.T) {
	hub := NewHub()

	// Absent recipients are not an error; they catch up via unread counts.
	err := hub.Notify("user-1", models.MessageNotification{MessageID: "m1"})
	assert.NoError(t, err)
	assert.False(t, hub.Connected("user-1"))
}

// dialHub opens a client websocket against a server that registers every
// accepted connection with the hub, and returns the server-side conn.
func dialHub(t *testing.T, hub *Hub, userID string) (*websocket.Conn, *websocket.Conn, func()) {
	t.Helper()

	accepted := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Add(userID, conn)
		accepted <- conn
	}))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	serverConn := <-accepted
	return client, serverConn, func() {
		client.Close()
		server.Close()
	}
}

func TestHubNotifyDelivers(t *testing.T) {
	hub := NewHub()

	client, serverConn, cleanup := dialHub(t, hub, "user-1")
	defer cleanup()

	require.True(t, hub.Connected("user-1"))

	notification := models.MessageNotification{
		ConversationID: "conv-1",
		MessageID:      "msg-1",
		SenderID:       "user-2",
		Preview:        "hello",
	}
	require.NoError(t, hub.Notify("user-1", notification))

	client.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)

	var got models.MessageNotification
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, notification.MessageID, got.MessageID)
	assert.Equal(t, notification.Preview, got.Preview)

	hub.Remove("user-1", serverConn)
	assert.False(t, hub.Connected("user-1"))
}

func TestHubNotifyConcurrent(t *testing.T) {
	hub := NewHub()

	client, _, cleanup := dialHub(t, hub, "user-1")
	defer cleanup()

	const senders = 16
	done := make(chan error, senders)
	for i := 0; i < senders; i++ {
		go func() {
			done <- hub.Notify("user-1", models.MessageNotification{MessageID: "msg"})
		}()
	}

	for i := 0; i < senders; i++ {
		require.NoError(t, <-done)
	}

	client.SetReadDeadline(time.Now().Add(time.Second))
	for i := 0; i < senders; i++ {
		_, _, err := client.ReadMessage()
		require.NoError(t, err)
	}
}

func TestHubReconnectKeepsReplacement(t *testing.T) {
	hub := NewHub()

	_, firstConn, firstCleanup := dialHub(t, hub, "user-1")
	defer firstCleanup()

	replacement, secondConn, secondCleanup := dialHub(t, hub, "user-1")
	defer secondCleanup()

	// The stale handler unwinds after its connection was replaced; its
	// removal must not unregister the replacement.
	hub.Remove("user-1", firstConn)
	require.True(t, hub.Connected("user-1"))

	require.NoError(t, hub.Notify("user-1", models.MessageNotification{MessageID: "msg-1"}))

	replacement.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := replacement.ReadMessage()
	require.NoError(t, err)

	var got models.MessageNotification
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "msg-1", got.MessageID)

	hub.Remove("user-1", secondConn)
	assert.False(t, hub.Connected("user-1"))
}
