package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-engagement-client/internal/logger"
	"lms-engagement-client/internal/middleware"
	"lms-engagement-client/internal/status"
)

func newHubServer(t *testing.T) (*Hub, *middleware.JWTAuth, string) {
	t.Helper()
	auth := middleware.NewJWTAuth("test-secret")
	hub := NewHub(nil, auth, logger.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)
	return hub, auth, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHandleWebSocketRequiresToken(t *testing.T) {
	_, _, url := newHubServer(t)

	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = gorilla.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeliverStreamsLines(t *testing.T) {
	hub, auth, url := newHubServer(t)
	token, err := auth.GenerateAccessToken("7", "alice")
	require.NoError(t, err)

	conn, _, err := gorilla.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount("7") == 1 }, time.Second, 10*time.Millisecond)

	hub.Deliver(status.Line{UserID: "8", Message: "not for alice", At: time.Now()})
	hub.Deliver(status.Line{UserID: "7", Message: "Event sent: student_id=S1, forwarded=edumind", At: time.Now()})
	hub.Deliver(status.Line{Message: "Please login first.", At: time.Now()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got []string
	for i := 0; i < 2; i++ {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var line status.Line
		require.NoError(t, json.Unmarshal(data, &line))
		got = append(got, line.Message)
	}
	assert.Equal(t, []string{"Event sent: student_id=S1, forwarded=edumind", "Please login first."}, got)
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, auth, url := newHubServer(t)
	token, _ := auth.GenerateAccessToken("7", "alice")

	conn, _, err := gorilla.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ConnectionCount("7") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ConnectionCount("7") == 0 }, time.Second, 10*time.Millisecond)
}

func TestStalledClientDoesNotBlockDelivery(t *testing.T) {
	hub, auth, url := newHubServer(t)
	board := status.NewBoard()
	board.Subscribe(hub.Deliver)

	token, err := auth.GenerateAccessToken("7", "alice")
	require.NoError(t, err)
	stalled, _, err := gorilla.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer stalled.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount("7") == 1 }, time.Second, 10*time.Millisecond)

	payload := strings.Repeat("x", 8192)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 4000; i++ {
			board.Notify(context.Background(), "7", payload)
		}
		board.Notify(context.Background(), "7", "next report")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("status delivery blocked behind a client that never reads")
	}
	latest, ok := board.Latest()
	require.True(t, ok)
	assert.Equal(t, "next report", latest.Message)

	assert.Eventually(t, func() bool { return hub.ConnectionCount("7") == 0 }, 5*time.Second, 10*time.Millisecond)

	other, _ := auth.GenerateAccessToken("8", "bob")
	conn, _, err := gorilla.DefaultDialer.Dial(url+"?token="+other, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Eventually(t, func() bool { return hub.ConnectionCount("8") == 1 }, time.Second, 10*time.Millisecond)
}
