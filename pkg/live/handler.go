package live

import (
	"context"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"assetdeck/pkg/response"
	"assetdeck/pkg/session"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
)

// SessionSource resolves the account a connection belongs to.
type SessionSource interface {
	Current(ctx context.Context) (session.Session, error)
}

type Handler struct {
	hub      *Hub
	sessions SessionSource
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHandler serves GET /ws/assets. allowedOrigins follows the CORS setting; "*" accepts any origin.
func NewHandler(hub *Hub, sessions SessionSource, allowedOrigins []string) *Handler {
	h := &Handler{
		hub:      hub,
		sessions: sessions,
		logger:   log.New(log.Writer(), "[live] ", log.LstdFlags),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws/assets", h.handleWebSocket)
}

// @Summary      Live asset updates
// @Description  Upgrades to a websocket that receives asset.created, asset.updated and asset.deleted events for the signed-in account
// @Tags         live
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} response.APIResponse
// @Router       /ws/assets [get]
func (h *Handler) handleWebSocket(c *gin.Context) {
	sess, err := h.sessions.Current(c.Request.Context())
	if err != nil {
		response.SendAPIResponse(c, http.StatusUnauthorized, false, "sign in required", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade error: %v", err)
		return
	}

	client := h.hub.AddClient(sess.AccountID, conn)
	h.logger.Printf("account %s connected", sess.AccountID)

	go h.readLoop(client)
	go h.writeLoop(client)
}

// readLoop only keeps the read deadline fresh; clients do not send events.
func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.hub.RemoveClient(client)
		client.Conn.Close()
		h.logger.Printf("account %s disconnected", client.AccountID)
	}()

	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("websocket error for account %s: %v", client.AccountID, err)
			}
			return
		}
	}
}

func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case <-client.Done:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			client.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return

		case message := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.Conn.WriteJSON(message); err != nil {
				h.logger.Printf("write error for account %s: %v", client.AccountID, err)
				h.hub.RemoveClient(client)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.Printf("ping error for account %s: %v", client.AccountID, err)
				h.hub.RemoveClient(client)
				return
			}
		}
	}
}
