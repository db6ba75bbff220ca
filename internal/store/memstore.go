package store

import (
	"sync"

	"checkers-server/internal/game"
)

// MemoryStore keeps live sessions in process memory, keyed by room code.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*game.Game
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]*game.Game{},
	}
}

func (m *MemoryStore) Get(code string) (*game.Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.rooms[code]
	return g, ok
}

func (m *MemoryStore) Save(g *game.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[g.RoomID()] = g
}

func (m *MemoryStore) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

// Len reports the number of live rooms.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
