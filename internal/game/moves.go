package game

// Move is a single displacement of one piece. Captured is set iff the
// move takes an opposing piece.
type Move struct {
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Captured *Position `json:"captured,omitempty"`
}

// IsCapture reports whether the move removes an opposing piece.
func (m Move) IsCapture() bool { return m.Captured != nil }

var allDiagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// forwardDiagonals returns the two advancing directions for a man of the
// given color. White advances toward row 0, black toward row 7.
func forwardDiagonals(c Color) [2][2]int {
	if c == White {
		return [2][2]int{{-1, -1}, {-1, 1}}
	}
	return [2][2]int{{1, -1}, {1, 1}}
}

// Captures enumerates every capture available to a color anywhere on the
// board. Non-empty means captures are mandatory for that side.
func Captures(b *Board, c Color) []Move {
	var out []Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pos := Position{Row: row, Col: col}
			if pc := b.At(pos); pc != nil && pc.Color == c {
				out = append(out, CapturesForPiece(b, pos)...)
			}
		}
	}
	return out
}

// CapturesForPiece enumerates the captures available to the piece at pos.
// A man jumps an adjacent enemy into the empty square directly beyond. A
// king scans each diagonal to the first piece; if it is an enemy, every
// empty square past it up to the next blocker is a separate landing.
func CapturesForPiece(b *Board, pos Position) []Move {
	pc := b.At(pos)
	if pc == nil {
		return nil
	}

	var out []Move
	if pc.Rank == King {
		for _, d := range allDiagonals {
			step := Position{Row: pos.Row + d[0], Col: pos.Col + d[1]}
			for step.InBounds() && b.At(step) == nil {
				step = Position{Row: step.Row + d[0], Col: step.Col + d[1]}
			}
			target := b.At(step)
			if target == nil || target.Color == pc.Color {
				continue
			}
			captured := step
			land := Position{Row: step.Row + d[0], Col: step.Col + d[1]}
			for land.InBounds() && b.At(land) == nil {
				cap := captured
				out = append(out, Move{From: pos, To: land, Captured: &cap})
				land = Position{Row: land.Row + d[0], Col: land.Col + d[1]}
			}
		}
		return out
	}

	for _, d := range forwardDiagonals(pc.Color) {
		mid := Position{Row: pos.Row + d[0], Col: pos.Col + d[1]}
		land := Position{Row: pos.Row + 2*d[0], Col: pos.Col + 2*d[1]}
		enemy := b.At(mid)
		if enemy != nil && enemy.Color != pc.Color && b.Empty(land) {
			cap := mid
			out = append(out, Move{From: pos, To: land, Captured: &cap})
		}
	}
	return out
}

// SimpleMovesForPiece enumerates non-capturing moves for the piece at
// pos: one forward step for a man, any open diagonal slide for a king.
func SimpleMovesForPiece(b *Board, pos Position) []Move {
	pc := b.At(pos)
	if pc == nil {
		return nil
	}

	var out []Move
	if pc.Rank == King {
		for _, d := range allDiagonals {
			step := Position{Row: pos.Row + d[0], Col: pos.Col + d[1]}
			for b.Empty(step) {
				out = append(out, Move{From: pos, To: step})
				step = Position{Row: step.Row + d[0], Col: step.Col + d[1]}
			}
		}
		return out
	}

	for _, d := range forwardDiagonals(pc.Color) {
		step := Position{Row: pos.Row + d[0], Col: pos.Col + d[1]}
		if b.Empty(step) {
			out = append(out, Move{From: pos, To: step})
		}
	}
	return out
}

// LegalMovesFor resolves what the piece at pos may do, honoring an
// in-progress capture chain and the mandatory-capture rule. With chain
// set, only the chained piece may act and only by capturing. Otherwise,
// any board-wide capture restricts the whole side to captures; a piece
// without one simply has no legal moves while another piece does.
func LegalMovesFor(b *Board, pos Position, c Color, chain *Position) []Move {
	pc := b.At(pos)
	if pc == nil || pc.Color != c {
		return nil
	}
	if chain != nil {
		if pos != *chain {
			return nil
		}
		return CapturesForPiece(b, pos)
	}
	if len(Captures(b, c)) > 0 {
		return CapturesForPiece(b, pos)
	}
	return SimpleMovesForPiece(b, pos)
}

// HasAnyMove reports whether the color can make at least one legal move.
func HasAnyMove(b *Board, c Color) bool {
	if len(Captures(b, c)) > 0 {
		return true
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pos := Position{Row: row, Col: col}
			if pc := b.At(pos); pc != nil && pc.Color == c {
				if len(SimpleMovesForPiece(b, pos)) > 0 {
					return true
				}
			}
		}
	}
	return false
}
