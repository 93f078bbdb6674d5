package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"assetdeck/pkg/session"
)

type fixedSession struct {
	sess session.Session
	err  error
}

func (f fixedSession) Current(ctx context.Context) (session.Session, error) {
	return f.sess, f.err
}

func newLiveServer(t *testing.T, hub *Hub, sessions SessionSource) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(hub, sessions, []string{"*"}).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/assets"
}

func TestHandler_RejectsWithoutSession(t *testing.T) {
	hub := NewHub()
	srv := newLiveServer(t, hub, fixedSession{err: session.ErrNotAuthenticated})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_DeliversPublishedEvents(t *testing.T) {
	hub := NewHub()
	srv := newLiveServer(t, hub, fixedSession{sess: session.Session{AccountID: "acc-1"}})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectedClients("acc-1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish("acc-1", map[string]string{"type": "asset.deleted", "id": "a1"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got map[string]string
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, "asset.deleted", got["type"])
	require.Equal(t, "a1", got["id"])
}

func TestHandler_DisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	srv := newLiveServer(t, hub, fixedSession{sess: session.Session{AccountID: "acc-1"}})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ConnectedClients("acc-1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ConnectedClients("acc-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
