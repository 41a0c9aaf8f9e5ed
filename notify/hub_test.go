package notify

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHubServer(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewClient(hub, conn)
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(server.Close)

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialAndAuth(t *testing.T, url string, userID int) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.WriteJSON(AuthMessage{Type: "auth", UserID: userID}))
	return conn
}

func readPush(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var message map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &message))
	return message
}

func TestUnreadCountReachesAuthenticatedUser(t *testing.T) {
	hub, url := startHubServer(t)
	conn := dialAndAuth(t, url, 7)

	// Registration races the auth frame; give the hub a moment.
	time.Sleep(100 * time.Millisecond)
	hub.PushUnreadCount(7, 3)

	message := readPush(t, conn)
	assert.Equal(t, "unread_count", message["type"])
	assert.Equal(t, float64(3), message["count"])
}

func TestPushIsScopedToTargetUser(t *testing.T) {
	hub, url := startHubServer(t)
	target := dialAndAuth(t, url, 1)
	bystander := dialAndAuth(t, url, 2)

	time.Sleep(100 * time.Millisecond)
	hub.PushUnreadCount(1, 5)

	message := readPush(t, target)
	assert.Equal(t, float64(5), message["count"])

	bystander.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := bystander.ReadMessage()
	assert.Error(t, err, "the push must not reach other users")
}

func TestBroadcastReachesEveryAuthenticatedClient(t *testing.T) {
	hub, url := startHubServer(t)
	first := dialAndAuth(t, url, 1)
	second := dialAndAuth(t, url, 2)

	time.Sleep(100 * time.Millisecond)
	hub.Broadcast(map[string]interface{}{"type": "notification", "title": "maintenance"})

	for _, conn := range []*websocket.Conn{first, second} {
		message := readPush(t, conn)
		assert.Equal(t, "notification", message["type"])
	}
}

func TestUnauthenticatedConnectionGetsNothing(t *testing.T) {
	hub, url := startHubServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	time.Sleep(100 * time.Millisecond)
	hub.Broadcast(map[string]interface{}{"type": "notification"})

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, readErr := conn.ReadMessage()
	assert.Error(t, readErr, "no auth frame, no pushes")
}
