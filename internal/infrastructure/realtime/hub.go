package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks live websocket connections grouped by space. A member may
// hold several connections at once (phone plus laptop); each gets its
// own fan-out copy.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]*Connection               // connection ID -> connection
	spaces map[uuid.UUID]map[uuid.UUID]*Connection // space ID -> connection ID -> connection
	logger *zap.Logger
}

// NewHub constructs an initialized Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[uuid.UUID]*Connection),
		spaces: make(map[uuid.UUID]map[uuid.UUID]*Connection),
		logger: logger,
	}
}

// Attach registers a connection under its space and starts its write loop.
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	room := h.spaces[conn.SpaceID]
	if room == nil {
		room = make(map[uuid.UUID]*Connection)
		h.spaces[conn.SpaceID] = room
	}
	room[conn.ID] = conn
	h.mu.Unlock()

	conn.Start()

	h.logger.Debug("websocket attached",
		zap.String("space_id", conn.SpaceID.String()),
		zap.String("user_id", conn.UserID.String()))
}

// Detach removes a connection if it is still tracked.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	delete(h.conns, conn.ID)
	if room := h.spaces[conn.SpaceID]; room != nil {
		delete(room, conn.ID)
		if len(room) == 0 {
			delete(h.spaces, conn.SpaceID)
		}
	}
	h.mu.Unlock()
}

// Broadcast writes payload to every connection in the space and returns
// the delivery count. Send failures detach themselves via Close.
func (h *Hub) Broadcast(spaceID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	room := h.spaces[spaceID]
	targets := make([]*Connection, 0, len(room))
	for _, conn := range room {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// ConnectionCount reports how many connections a space currently has.
func (h *Hub) ConnectionCount(spaceID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.spaces[spaceID])
}

// Close terminates every tracked connection and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[uuid.UUID]*Connection)
	h.spaces = make(map[uuid.UUID]map[uuid.UUID]*Connection)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}
