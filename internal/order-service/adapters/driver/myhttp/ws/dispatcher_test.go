package ws

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"freightflow/internal/mylogger"
	"freightflow/internal/order-service/core/domain/events"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	return log
}

// feedServer serves the dispatcher's feed with a fixed audience, the
// way the auth middleware would have resolved it.
func feedServer(t *testing.T, dis *Dispatcher, audience string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("X-Audience", audience)
		dis.FeedHandler()(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func clientCount(dis *Dispatcher, audience string) int {
	dis.mu.RLock()
	defer dis.mu.RUnlock()
	return len(dis.clients[audience])
}

func TestFeedDeliversToConnectedClient(t *testing.T) {
	dis := NewDispatcher(testLogger(t))
	srv := feedServer(t, dis, "admin")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return clientCount(dis, "admin") == 1
	}, time.Second, 10*time.Millisecond)

	sent := events.NotificationEvent{
		NotificationID: "n-1",
		Audience:       "admin",
		Message:        "New transport order submitted",
	}
	dis.WriteToAudience("admin", sent)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got events.NotificationEvent
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, sent.NotificationID, got.NotificationID)
	require.Equal(t, sent.Message, got.Message)
}

func TestFeedRejectsMissingAudience(t *testing.T) {
	dis := NewDispatcher(testLogger(t))
	srv := httptest.NewServer(dis.FeedHandler())
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// Connect/disconnect cycles must leave nothing behind: the registry
// empties out and both per-client goroutines terminate.
func TestFeedDisconnectReleasesClient(t *testing.T) {
	dis := NewDispatcher(testLogger(t))
	srv := feedServer(t, dis, "supplier:sup-1")

	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			return clientCount(dis, "supplier:sup-1") == 1
		}, time.Second, 5*time.Millisecond)
		conn.Close()
		require.Eventually(t, func() bool {
			return clientCount(dis, "supplier:sup-1") == 0
		}, time.Second, 5*time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 20*time.Millisecond, "feed goroutines still running after disconnects")

	dis.mu.RLock()
	defer dis.mu.RUnlock()
	require.Empty(t, dis.clients)
}
