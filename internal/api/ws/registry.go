package ws

import "checkers-server/internal/game"

// SessionRegistry is the command surface the hub drives. The concrete
// implementation lives in internal/room; the hub stays a pure transport
// adapter.
type SessionRegistry interface {
	CreateRoom() *game.Game
	Join(roomID, connID, nickname string) (game.Color, error)
	Leave(connID string) (string, bool)
	Get(roomID string) (*game.Game, bool)
	RoomOf(connID string) (string, bool)
}
