package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"checkers-server/internal/game"
	"checkers-server/internal/room"
)

// envelope frames every message in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// client is one websocket connection. Writes are serialized by mu;
// reads happen on the connection's own goroutine.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(event string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(gin.H{"event": event, "data": data})
}

// Hub owns the socket side of rooms: which connections receive a room's
// broadcasts. Game and seating decisions are delegated to the registry.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]struct{}
	registry SessionRegistry
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(registry SessionRegistry, allowedOrigin string, log *zap.Logger) *Hub {
	return &Hub{
		rooms:    make(map[string]map[*client]struct{}),
		registry: registry,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// HandleWS upgrades the request and runs the connection's read loop
// until the peer goes away.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{id: uuid.NewString(), conn: conn}
	h.log.Info("client connected", zap.String("conn", cl.id))
	defer h.disconnect(cl)

	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.dispatch(cl, msg)
	}
}

func (h *Hub) dispatch(cl *client, msg envelope) {
	switch msg.Event {
	case "create-room":
		var req struct {
			Nickname string `json:"nickname"`
		}
		unmarshal(msg.Data, &req)
		h.handleCreateRoom(cl, req.Nickname)
	case "join-room":
		var req struct {
			RoomID   string `json:"roomId"`
			Nickname string `json:"nickname"`
		}
		unmarshal(msg.Data, &req)
		h.handleJoinRoom(cl, req.RoomID, req.Nickname)
	case "make-move":
		var req struct {
			From game.Position `json:"from"`
			To   game.Position `json:"to"`
		}
		unmarshal(msg.Data, &req)
		h.handleMakeMove(cl, req.From, req.To)
	case "reset-game":
		h.handleResetGame(cl)
	case "get-game-state":
		var req struct {
			RoomID string `json:"roomId"`
		}
		unmarshal(msg.Data, &req)
		h.handleGetGameState(cl, req.RoomID)
	case "leave-room":
		h.handleLeaveRoom(cl)
	default:
		h.log.Debug("unknown event", zap.String("event", msg.Event), zap.String("conn", cl.id))
	}
}

func (h *Hub) handleCreateRoom(cl *client, nickname string) {
	g := h.registry.CreateRoom()
	roomID := g.RoomID()
	if _, err := h.registry.Join(roomID, cl.id, nickname); err != nil {
		_ = cl.send("room-error", gin.H{"message": err.Error()})
		return
	}
	h.seat(cl, roomID)
	_ = cl.send("room-created", gin.H{"roomId": roomID})
	_ = cl.send("game-state", g.State())
}

func (h *Hub) handleJoinRoom(cl *client, roomID, nickname string) {
	g, ok := h.registry.Get(roomID)
	if !ok {
		_ = cl.send("room-error", gin.H{"message": room.ErrRoomNotFound.Error()})
		return
	}
	color, err := h.registry.Join(roomID, cl.id, nickname)
	if err != nil {
		_ = cl.send("room-error", gin.H{"message": err.Error()})
		return
	}
	h.seat(cl, roomID)
	_ = cl.send("room-joined", gin.H{"roomId": roomID, "color": color, "nickname": nickname})

	if g.CanStart() {
		g.Start()
		h.broadcast(roomID, "game-started", g.State())
		h.log.Info("game started", zap.String("room", roomID))
		return
	}
	// Still waiting for the opponent, or rejoining a running game.
	h.broadcast(roomID, "game-state", g.State())
}

func (h *Hub) handleMakeMove(cl *client, from, to game.Position) {
	roomID, ok := h.registry.RoomOf(cl.id)
	if !ok {
		_ = cl.send("move-error", gin.H{"message": room.ErrNotInRoom.Error()})
		return
	}
	g, ok := h.registry.Get(roomID)
	if !ok {
		_ = cl.send("move-error", gin.H{"message": room.ErrRoomNotFound.Error()})
		return
	}
	color, ok := g.ColorOf(cl.id)
	if !ok {
		_ = cl.send("move-error", gin.H{"message": room.ErrNotAPlayer.Error()})
		return
	}

	res, err := g.MakeMove(color, from, to)
	if err != nil {
		_ = cl.send("move-error", gin.H{"message": err.Error()})
		return
	}

	h.broadcast(roomID, "move-made", gin.H{
		"from":         from,
		"to":           to,
		"captured":     res.Captured,
		"mustContinue": res.MustContinue,
		"gameState":    g.State(),
	})
	if res.MustContinue {
		_ = cl.send("must-continue-capture", gin.H{"from": to})
	}
}

func (h *Hub) handleResetGame(cl *client) {
	roomID, ok := h.registry.RoomOf(cl.id)
	if !ok {
		return
	}
	g, ok := h.registry.Get(roomID)
	if !ok {
		return
	}
	g.Reset()
	h.broadcast(roomID, "game-reset", g.State())
	h.log.Info("game reset", zap.String("room", roomID))
}

func (h *Hub) handleGetGameState(cl *client, roomID string) {
	g, ok := h.registry.Get(roomID)
	if !ok {
		_ = cl.send("room-error", gin.H{"message": room.ErrRoomNotFound.Error()})
		return
	}
	_ = cl.send("game-state", g.State())
}

func (h *Hub) handleLeaveRoom(cl *client) {
	if roomID, ok := h.registry.Leave(cl.id); ok {
		h.unseat(cl, roomID)
	}
}

// disconnect handles transport loss: the slot opens up and the rest of
// the room is told to wait.
func (h *Hub) disconnect(cl *client) {
	if roomID, ok := h.registry.Leave(cl.id); ok {
		h.unseat(cl, roomID)
		h.broadcast(roomID, "player-disconnected", gin.H{
			"message": "A player disconnected. Waiting for reconnection...",
		})
	}
	_ = cl.conn.Close()
	h.log.Info("client disconnected", zap.String("conn", cl.id))
}

func (h *Hub) seat(cl *client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, members := range h.rooms {
		if id != roomID {
			delete(members, cl)
		}
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*client]struct{})
	}
	h.rooms[roomID][cl] = struct{}{}
}

func (h *Hub) unseat(cl *client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, cl)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// broadcast delivers an event to every connection seated in the room.
// Delivery order within a room follows the order operations were
// applied; errors drop only the failing connection.
func (h *Hub) broadcast(roomID, event string, data interface{}) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[roomID]))
	for cl := range h.rooms[roomID] {
		members = append(members, cl)
	}
	h.mu.RUnlock()

	for _, cl := range members {
		if err := cl.send(event, data); err != nil {
			h.log.Warn("broadcast failed",
				zap.String("room", roomID),
				zap.String("conn", cl.id),
				zap.Error(err),
			)
		}
	}
}

func unmarshal(raw json.RawMessage, v interface{}) {
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, v)
	}
}
