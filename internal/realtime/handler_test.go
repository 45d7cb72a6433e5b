package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"webdating-engagement/internal/pkg/token"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zap.NewNop(), 16, 4)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle(HubPath, NewHandler(hub, testSecret, time.Second, nil, zap.NewNop()))
	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, accessToken string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + HubPath + "?access_token=" + accessToken
	return websocket.DefaultDialer.Dial(url, nil)
}

func waitForSessions(t *testing.T, hub *Hub, userID int64, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.SessionCount(userID) == n }, time.Second, 10*time.Millisecond)
}

func TestHandler_DeliversEventsToAuthenticatedSession(t *testing.T) {
	hub, srv := newTestServer(t)

	accessToken, err := token.Issue(5, testSecret, time.Minute)
	require.NoError(t, err)

	conn, _, err := dial(t, srv, accessToken)
	require.NoError(t, err)
	defer conn.Close()

	waitForSessions(t, hub, 5, 1)
	hub.SendToUser(5, EventSendNotification, map[string]string{"content": "hi"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, EventSendNotification, msg.Event)
	assert.JSONEq(t, `{"content":"hi"}`, string(msg.Data))
}

func TestHandler_RejectsMissingOrInvalidToken(t *testing.T) {
	_, srv := newTestServer(t)

	for _, tok := range []string{"", "garbage"} {
		_, resp, err := dial(t, srv, tok)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestHandler_ClosedConnectionUnregisters(t *testing.T) {
	hub, srv := newTestServer(t)

	accessToken, err := token.Issue(8, testSecret, time.Minute)
	require.NoError(t, err)

	conn, _, err := dial(t, srv, accessToken)
	require.NoError(t, err)
	waitForSessions(t, hub, 8, 1)

	require.NoError(t, conn.Close())
	waitForSessions(t, hub, 8, 0)
}

func TestHandler_RejectsUpgradeAfterHubStopped(t *testing.T) {
	hub := NewHub(zap.NewNop(), 16, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(NewHandler(hub, testSecret, time.Second, nil, zap.NewNop()))
	defer srv.Close()

	cancel()
	<-done

	accessToken, err := token.Issue(9, testSecret, time.Minute)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?access_token=" + accessToken
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Zero(t, hub.SessionCount(9))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example"})

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set("Origin", "https://app.example")
	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "https://evil.example")

	assert.True(t, check(allowed))
	assert.False(t, check(denied))
	assert.True(t, originChecker([]string{"*"})(denied))
}
