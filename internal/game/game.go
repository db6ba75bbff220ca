package game

import "sync"

// Status is the session lifecycle phase.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// PlayerRef ties a color slot to a connection. Identity is the
// connection id.
type PlayerRef struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// Players holds the two color slots.
type Players struct {
	White *PlayerRef `json:"white"`
	Black *PlayerRef `json:"black"`
}

// MoveResult is the successful outcome of MakeMove. MustContinue means
// the same piece has another capture and the turn has not passed.
type MoveResult struct {
	Captured     *Position `json:"captured,omitempty"`
	MustContinue bool      `json:"mustContinue,omitempty"`
}

// State is the session snapshot broadcast to clients.
type State struct {
	RoomID        string  `json:"roomId"`
	Board         *Board  `json:"board"`
	CurrentPlayer Color   `json:"currentPlayer"`
	Players       Players `json:"players"`
	GameStatus    Status  `json:"gameStatus"`
	Winner        *Color  `json:"winner"`
	LastMove      *Move   `json:"lastMove"`
}

// Game is one authoritative checkers session. All mutation goes through
// methods holding mu, so a session is a single-writer resource while
// separate rooms proceed in parallel.
type Game struct {
	mu sync.Mutex

	roomID   string
	board    *Board
	turn     Color
	players  Players
	status   Status
	winner   *Color
	lastMove *Move
	chain    *Position // square a piece must continue capturing from
}

func New(roomID string) *Game {
	return &Game{
		roomID: roomID,
		board:  NewBoard(),
		turn:   White,
		status: StatusWaiting,
	}
}

func (g *Game) RoomID() string { return g.roomID }

// AddPlayer fills the first open slot, white before black, and returns
// the assigned color.
func (g *Game) AddPlayer(connID, nickname string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref := &PlayerRef{ID: connID, Nickname: nickname}
	switch {
	case g.players.White == nil:
		g.players.White = ref
		return White, nil
	case g.players.Black == nil:
		g.players.Black = ref
		return Black, nil
	default:
		return "", ErrRoomFull
	}
}

// RemovePlayer vacates whichever slot the connection holds. The game
// stays in its current status; an abandoned playing game is unplayable
// but not destroyed until the registry expires the room.
func (g *Game) RemovePlayer(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.players.White != nil && g.players.White.ID == connID {
		g.players.White = nil
	}
	if g.players.Black != nil && g.players.Black.ID == connID {
		g.players.Black = nil
	}
}

// ColorOf returns the color slot held by the connection.
func (g *Game) ColorOf(connID string) (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.players.White != nil && g.players.White.ID == connID {
		return White, true
	}
	if g.players.Black != nil && g.players.Black.ID == connID {
		return Black, true
	}
	return "", false
}

// Empty reports whether both slots are vacant.
func (g *Game) Empty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.White == nil && g.players.Black == nil
}

// CanStart reports whether the game is waiting with both slots filled.
func (g *Game) CanStart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.White != nil && g.players.Black != nil && g.status == StatusWaiting
}

// Start moves waiting -> playing. White moves first.
func (g *Game) Start() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.players.White == nil || g.players.Black == nil || g.status != StatusWaiting {
		return false
	}
	g.status = StatusPlaying
	g.turn = White
	return true
}

// Reset re-images the board to the starting position and resumes play.
// Slots are untouched, so the same two players continue.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.board = NewBoard()
	g.turn = White
	g.status = StatusPlaying
	g.winner = nil
	g.lastMove = nil
	g.chain = nil
}

// MakeMove validates and applies a move for the given color. The
// captured square is derived from the path, never trusted from the
// client. On any error the session is left unchanged.
func (g *Game) MakeMove(c Color, from, to Position) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusPlaying {
		return MoveResult{}, ErrGameNotStarted
	}
	if g.turn != c {
		return MoveResult{}, ErrNotYourTurn
	}
	pc := g.board.At(from)
	if pc == nil || pc.Color != c {
		return MoveResult{}, ErrInvalidPiece
	}

	captured, err := g.capturedSquare(pc, from, to)
	if err != nil {
		return MoveResult{}, err
	}

	mustCapture := g.chain != nil || len(Captures(g.board, c)) > 0
	if mustCapture && captured == nil {
		return MoveResult{}, ErrCaptureRequired
	}
	if g.chain != nil && from != *g.chain {
		return MoveResult{}, ErrCaptureRequired
	}

	if !moveListed(LegalMovesFor(g.board, from, c, g.chain), from, to, captured) {
		if captured != nil {
			return MoveResult{}, ErrInvalidCapture
		}
		return MoveResult{}, ErrInvalidMove
	}

	// Apply.
	if captured != nil {
		g.board.remove(*captured)
	}
	g.board.remove(from)
	g.board.set(to, pc)

	if pc.Rank == Man && promotionRow(c) == to.Row {
		pc.Rank = King
	}

	mv := Move{From: from, To: to, Captured: captured}
	g.lastMove = &mv

	if captured != nil && len(CapturesForPiece(g.board, to)) > 0 {
		land := to
		g.chain = &land
		return MoveResult{Captured: captured, MustContinue: true}, nil
	}

	g.chain = nil
	g.turn = c.Opponent()

	// The side now to move loses when it has nothing left to play.
	if g.board.Count(g.turn) == 0 || !HasAnyMove(g.board, g.turn) {
		g.status = StatusFinished
		winner := c
		g.winner = &winner
	}

	return MoveResult{Captured: captured}, nil
}

// capturedSquare classifies the displacement from->to for the piece and
// returns the square it captures, nil for a simple move, or an error for
// geometry the piece can never perform.
func (g *Game) capturedSquare(pc *Piece, from, to Position) (*Position, error) {
	dr := to.Row - from.Row
	dc := to.Col - from.Col
	if !to.InBounds() || !to.Dark() || abs(dr) != abs(dc) || dr == 0 {
		return nil, ErrInvalidMove
	}

	if pc.Rank == Man {
		if abs(dr) == 2 {
			mid := Position{Row: from.Row + dr/2, Col: from.Col + dc/2}
			return &mid, nil
		}
		return nil, nil
	}

	// King: scan the ray for pieces strictly between from and to.
	stepR, stepC := sign(dr), sign(dc)
	var enemy *Position
	for p := (Position{Row: from.Row + stepR, Col: from.Col + stepC}); p != to; p = (Position{Row: p.Row + stepR, Col: p.Col + stepC}) {
		occupant := g.board.At(p)
		if occupant == nil {
			continue
		}
		if occupant.Color == pc.Color || enemy != nil {
			return nil, ErrPathBlocked
		}
		hit := p
		enemy = &hit
	}
	return enemy, nil
}

func moveListed(avail []Move, from, to Position, captured *Position) bool {
	for _, m := range avail {
		if m.From != from || m.To != to {
			continue
		}
		if (m.Captured == nil) != (captured == nil) {
			continue
		}
		if m.Captured == nil || *m.Captured == *captured {
			return true
		}
	}
	return false
}

func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return BoardSize - 1
}

// State snapshots the session for broadcast.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{
		RoomID:        g.roomID,
		Board:         g.board.Clone(),
		CurrentPlayer: g.turn,
		Players:       g.players,
		GameStatus:    g.status,
		Winner:        g.winner,
		LastMove:      g.lastMove,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x < 0 {
		return -1
	}
	return 1
}
