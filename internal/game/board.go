package game

import "encoding/json"

const BoardSize = 8

// Color identifies a side. White moves first and plays toward row 0.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Rank is a piece's promotion state.
type Rank string

const (
	Man  Rank = "man"
	King Rank = "king"
)

type Piece struct {
	Rank  Rank  `json:"rank"`
	Color Color `json:"color"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Dark reports whether the position is a playable dark square.
func (p Position) Dark() bool {
	return (p.Row+p.Col)%2 == 1
}

// Board is an 8x8 grid of optional pieces. Only dark squares ever hold a
// piece. All access goes through the bounds-checked methods.
type Board struct {
	cells [BoardSize][BoardSize]*Piece
}

// NewBoard returns the canonical starting position: twelve black men on
// the top three rows, twelve white men on the bottom three, dark squares
// only.
func NewBoard() *Board {
	b := &Board{}
	for row := 0; row < 3; row++ {
		for col := 0; col < BoardSize; col++ {
			if (row+col)%2 == 1 {
				b.cells[row][col] = &Piece{Rank: Man, Color: Black}
			}
		}
	}
	for row := 5; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if (row+col)%2 == 1 {
				b.cells[row][col] = &Piece{Rank: Man, Color: White}
			}
		}
	}
	return b
}

// At returns the piece at p, or nil if the square is empty or off-board.
func (b *Board) At(p Position) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b.cells[p.Row][p.Col]
}

// Empty reports whether p is on-board and unoccupied.
func (b *Board) Empty(p Position) bool {
	return p.InBounds() && b.cells[p.Row][p.Col] == nil
}

func (b *Board) set(p Position, pc *Piece) {
	if p.InBounds() {
		b.cells[p.Row][p.Col] = pc
	}
}

func (b *Board) remove(p Position) {
	if p.InBounds() {
		b.cells[p.Row][p.Col] = nil
	}
}

// Count returns the number of pieces of the given color.
func (b *Board) Count(c Color) int {
	n := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if pc := b.cells[row][col]; pc != nil && pc.Color == c {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy. Move generation works on snapshots and must
// never mutate the board it inspects.
func (b *Board) Clone() *Board {
	out := &Board{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if pc := b.cells[row][col]; pc != nil {
				cp := *pc
				out.cells[row][col] = &cp
			}
		}
	}
	return out
}

// MarshalJSON emits the wire format the client renders: an 8x8 array of
// null or {rank, color}.
func (b *Board) MarshalJSON() ([]byte, error) {
	grid := make([][]*Piece, BoardSize)
	for row := 0; row < BoardSize; row++ {
		grid[row] = make([]*Piece, BoardSize)
		for col := 0; col < BoardSize; col++ {
			grid[row][col] = b.cells[row][col]
		}
	}
	return json.Marshal(grid)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var grid [][]*Piece
	if err := json.Unmarshal(data, &grid); err != nil {
		return err
	}
	for row := 0; row < BoardSize && row < len(grid); row++ {
		for col := 0; col < BoardSize && col < len(grid[row]); col++ {
			b.cells[row][col] = grid[row][col]
		}
	}
	return nil
}
