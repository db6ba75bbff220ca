package room

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"checkers-server/internal/game"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotInRoom    = errors.New("you are not in a room")
	ErrNotAPlayer   = errors.New("you are not a player in this game")
)

// Store is the injected session repository. The default implementation
// is in-memory (internal/store); nothing here assumes more than unique
// keys.
type Store interface {
	Get(code string) (*game.Game, bool)
	Save(g *game.Game)
	Delete(code string)
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// Registry creates, resolves and expires game sessions, and maps each
// connection to at most one room. Registry state is guarded by one
// short-held lock; per-session mutation is serialized by the session's
// own lock.
type Registry struct {
	mu       sync.Mutex
	store    Store
	connRoom map[string]string
	timers   map[string]*time.Timer
	grace    time.Duration
	log      *zap.Logger
	rng      *rand.Rand
}

func NewRegistry(store Store, grace time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		store:    store,
		connRoom: make(map[string]string),
		timers:   make(map[string]*time.Timer),
		grace:    grace,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateRoom stores a fresh waiting session under a new room code.
func (r *Registry) CreateRoom() *game.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := r.newCode()
	g := game.New(code)
	r.store.Save(g)
	r.log.Info("room created", zap.String("room", code))
	return g
}

// newCode draws 6-char codes until one is free among live rooms.
func (r *Registry) newCode() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[r.rng.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := r.store.Get(code); !taken {
			return code
		}
	}
}

// Join seats the connection in the room's next open color slot. A
// connection already seated elsewhere leaves that room first, so the
// one-room-per-connection invariant holds. Joining cancels any pending
// expiry for the room.
func (r *Registry) Join(roomID, connID, nickname string) (game.Color, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.store.Get(roomID)
	if !ok {
		return "", ErrRoomNotFound
	}
	if prev, seated := r.connRoom[connID]; seated && prev != roomID {
		r.leaveLocked(connID)
	}

	color, err := g.AddPlayer(connID, nickname)
	if err != nil {
		return "", err
	}
	r.connRoom[connID] = roomID
	if t, pending := r.timers[roomID]; pending {
		t.Stop()
		delete(r.timers, roomID)
	}
	r.log.Info("player joined",
		zap.String("room", roomID),
		zap.String("conn", connID),
		zap.String("color", string(color)),
	)
	return color, nil
}

// Leave vacates the connection's slot and reports which room it left.
func (r *Registry) Leave(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID)
}

func (r *Registry) leaveLocked(connID string) (string, bool) {
	roomID, ok := r.connRoom[connID]
	if !ok {
		return "", false
	}
	delete(r.connRoom, connID)

	g, ok := r.store.Get(roomID)
	if !ok {
		return roomID, true
	}
	g.RemovePlayer(connID)
	if g.Empty() {
		r.scheduleExpiry(roomID)
	}
	r.log.Info("player left", zap.String("room", roomID), zap.String("conn", connID))
	return roomID, true
}

// scheduleExpiry arms the deferred deletion timer. The callback
// re-checks emptiness under the registry lock, so a join that lands
// before it fires keeps the room.
func (r *Registry) scheduleExpiry(roomID string) {
	if t, pending := r.timers[roomID]; pending {
		t.Stop()
	}
	r.timers[roomID] = time.AfterFunc(r.grace, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.timers, roomID)
		g, ok := r.store.Get(roomID)
		if !ok || !g.Empty() {
			return
		}
		r.store.Delete(roomID)
		r.log.Info("room expired", zap.String("room", roomID))
	})
}

// Get resolves a room code to its session.
func (r *Registry) Get(roomID string) (*game.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Get(roomID)
}

// RoomOf reports which room the connection is seated in.
func (r *Registry) RoomOf(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.connRoom[connID]
	return roomID, ok
}
