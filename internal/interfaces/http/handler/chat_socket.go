package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/homehub/backend/internal/infrastructure/realtime"
)

const socketReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers cannot set Authorization headers on websocket upgrades
		// from other origins anyway; the JWT middleware gates access.
		return true
	},
}

// ChatSocketHandler upgrades authenticated requests to websockets and
// keeps them attached to the hub until the client disconnects. The
// socket is push-only: messages are sent over the REST endpoint and
// fanned out here.
type ChatSocketHandler struct {
	BaseHandler
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewChatSocketHandler creates a new chat socket handler
func NewChatSocketHandler(hub *realtime.Hub, logger *zap.Logger) *ChatSocketHandler {
	return &ChatSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// Connect godoc
// @Summary      Open the chat stream
// @Description  Upgrade to a websocket that receives the space's chat messages as they arrive
// @Tags         messages
// @Success      101 "Switching Protocols"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messages/stream [get]
func (h *ChatSocketHandler) Connect(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the response
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := realtime.NewConnection(userID, spaceID, ws)
	h.hub.Attach(conn)
	defer func() {
		h.hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	ws.SetReadLimit(4 << 10)
	_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	})

	if payload, err := json.Marshal(gin.H{"type": "connected"}); err == nil {
		_ = conn.Send(payload)
	}

	// Drain the read side for control frames until the client goes away
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				h.logger.Debug("websocket read ended",
					zap.String("user_id", userID.String()),
					zap.Error(err))
			}
			return
		}
	}
}
