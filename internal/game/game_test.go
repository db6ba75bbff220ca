package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayingGame(t *testing.T) *Game {
	t.Helper()
	g := New("TEST01")
	_, err := g.AddPlayer("conn-w", "alice")
	require.NoError(t, err)
	_, err = g.AddPlayer("conn-b", "bob")
	require.NoError(t, err)
	require.True(t, g.Start())
	return g
}

// playingGameWith swaps in a crafted position, white to move.
func playingGameWith(t *testing.T, pieces map[Position]Piece) *Game {
	t.Helper()
	g := newPlayingGame(t)
	g.board = boardWith(pieces)
	return g
}

func TestAddPlayerFillsWhiteThenBlack(t *testing.T) {
	g := New("TEST01")

	c1, err := g.AddPlayer("c1", "alice")
	require.NoError(t, err)
	assert.Equal(t, White, c1)

	c2, err := g.AddPlayer("c2", "bob")
	require.NoError(t, err)
	assert.Equal(t, Black, c2)

	_, err = g.AddPlayer("c3", "carol")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestStartRequiresBothPlayers(t *testing.T) {
	g := New("TEST01")
	assert.False(t, g.CanStart())
	assert.False(t, g.Start())

	_, _ = g.AddPlayer("c1", "alice")
	assert.False(t, g.Start())

	_, _ = g.AddPlayer("c2", "bob")
	require.True(t, g.CanStart())
	require.True(t, g.Start())

	st := g.State()
	assert.Equal(t, StatusPlaying, st.GameStatus)
	assert.Equal(t, White, st.CurrentPlayer)

	// Already playing; a second start is rejected.
	assert.False(t, g.Start())
}

func TestMoveBeforeStart(t *testing.T) {
	g := New("TEST01")
	_, _ = g.AddPlayer("c1", "alice")

	_, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 4, Col: 1})
	assert.ErrorIs(t, err, ErrGameNotStarted)
}

func TestSimpleMoveFlipsTurn(t *testing.T) {
	g := newPlayingGame(t)

	res, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 4, Col: 1})
	require.NoError(t, err)
	assert.Nil(t, res.Captured)
	assert.False(t, res.MustContinue)

	st := g.State()
	assert.Equal(t, Black, st.CurrentPlayer)
	assert.Nil(t, st.Board.At(Position{Row: 5, Col: 0}))
	assert.NotNil(t, st.Board.At(Position{Row: 4, Col: 1}))
	require.NotNil(t, st.LastMove)
	assert.Equal(t, Position{Row: 5, Col: 0}, st.LastMove.From)
	assert.Equal(t, Position{Row: 4, Col: 1}, st.LastMove.To)
}

func TestTurnAlternates(t *testing.T) {
	g := newPlayingGame(t)

	_, err := g.MakeMove(Black, Position{Row: 2, Col: 1}, Position{Row: 3, Col: 0})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 4, Col: 1})
	require.NoError(t, err)

	_, err = g.MakeMove(White, Position{Row: 5, Col: 2}, Position{Row: 4, Col: 3})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.MakeMove(Black, Position{Row: 2, Col: 1}, Position{Row: 3, Col: 0})
	require.NoError(t, err)
	assert.Equal(t, White, g.State().CurrentPlayer)
}

func TestInvalidPiece(t *testing.T) {
	g := newPlayingGame(t)

	// Empty square.
	_, err := g.MakeMove(White, Position{Row: 4, Col: 1}, Position{Row: 3, Col: 2})
	assert.ErrorIs(t, err, ErrInvalidPiece)

	// Opponent's piece.
	_, err = g.MakeMove(White, Position{Row: 2, Col: 1}, Position{Row: 3, Col: 2})
	assert.ErrorIs(t, err, ErrInvalidPiece)
}

func TestNonDiagonalMoveRejected(t *testing.T) {
	g := newPlayingGame(t)

	_, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 4, Col: 0})
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 5, Col: 2})
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestCaptureRemovesPieceAndFlipsTurn(t *testing.T) {
	g := playingGameWith(t, map[Position]Piece{
		{Row: 5, Col: 0}: {Rank: Man, Color: White},
		{Row: 4, Col: 1}: {Rank: Man, Color: Black},
		{Row: 0, Col: 7}: {Rank: Man, Color: Black}, // keeps black alive
	})

	res, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 3, Col: 2})
	require.NoError(t, err)
	require.NotNil(t, res.Captured)
	assert.Equal(t, Position{Row: 4, Col: 1}, *res.Captured)
	assert.False(t, res.MustContinue)

	st := g.State()
	assert.Nil(t, st.Board.At(Position{Row: 4, Col: 1}))
	assert.Equal(t, Black, st.CurrentPlayer)
	assert.Nil(t, g.chain)
}

func TestCaptureRequired(t *testing.T) {
	// A capture exists at (5,0) only; every other white piece is frozen.
	g := playingGameWith(t, map[Position]Piece{
		{Row: 5, Col: 0}: {Rank: Man, Color: White},
		{Row: 4, Col: 1}: {Rank: Man, Color: Black},
		{Row: 5, Col: 4}: {Rank: Man, Color: White},
	})

	_, err := g.MakeMove(White, Position{Row: 5, Col: 4}, Position{Row: 4, Col: 3})
	assert.ErrorIs(t, err, ErrCaptureRequired)

	// The capturing piece may not decline either.
	_, err = g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 4, Col: 1})
	assert.ErrorIs(t, err, ErrCaptureRequired)
}

func TestInvalidCapture(t *testing.T) {
	g := newPlayingGame(t)

	// Jump shape over an empty middle square.
	_, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 3, Col: 2})
	assert.ErrorIs(t, err, ErrInvalidCapture)
}

func TestCaptureChain(t *testing.T) {
	g := playingGameWith(t, map[Position]Piece{
		{Row: 5, Col: 0}: {Rank: Man, Color: White},
		{Row: 6, Col: 5}: {Rank: Man, Color: White},
		{Row: 4, Col: 1}: {Rank: Man, Color: Black},
		{Row: 2, Col: 3}: {Rank: Man, Color: Black},
	})

	res, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 3, Col: 2})
	require.NoError(t, err)
	assert.True(t, res.MustContinue)
	require.NotNil(t, res.Captured)
	assert.Equal(t, Position{Row: 4, Col: 1}, *res.Captured)

	// Turn is held until the chain resolves.
	st := g.State()
	assert.Equal(t, White, st.CurrentPlayer)
	require.NotNil(t, g.chain)
	assert.Equal(t, Position{Row: 3, Col: 2}, *g.chain)

	// A different white piece may not interject, and the chained piece
	// may not decline.
	_, err = g.MakeMove(White, Position{Row: 6, Col: 5}, Position{Row: 5, Col: 4})
	assert.ErrorIs(t, err, ErrCaptureRequired)
	_, err = g.MakeMove(White, Position{Row: 3, Col: 2}, Position{Row: 2, Col: 1})
	assert.ErrorIs(t, err, ErrCaptureRequired)

	// Finishing the chain flips the turn and ends the game: black has
	// nothing left.
	res, err = g.MakeMove(White, Position{Row: 3, Col: 2}, Position{Row: 1, Col: 4})
	require.NoError(t, err)
	assert.False(t, res.MustContinue)
	assert.Nil(t, g.chain)

	st = g.State()
	assert.Equal(t, StatusFinished, st.GameStatus)
	require.NotNil(t, st.Winner)
	assert.Equal(t, White, *st.Winner)
}

func TestPromotionOnBackRank(t *testing.T) {
	g := playingGameWith(t, map[Position]Piece{
		{Row: 1, Col: 2}: {Rank: Man, Color: White},
		{Row: 5, Col: 6}: {Rank: Man, Color: Black},
	})

	_, err := g.MakeMove(White, Position{Row: 1, Col: 2}, Position{Row: 0, Col: 3})
	require.NoError(t, err)

	pc := g.State().Board.At(Position{Row: 0, Col: 3})
	require.NotNil(t, pc)
	assert.Equal(t, King, pc.Rank)
}

func TestKingMoveAndPathBlocked(t *testing.T) {
	g := playingGameWith(t, map[Position]Piece{
		{Row: 4, Col: 3}: {Rank: King, Color: White},
		{Row: 6, Col: 1}: {Rank: Man, Color: White},
		{Row: 0, Col: 1}: {Rank: Man, Color: Black},
	})

	// Slide through an own piece is blocked, not merely invalid.
	_, err := g.MakeMove(White, Position{Row: 4, Col: 3}, Position{Row: 7, Col: 0})
	assert.ErrorIs(t, err, ErrPathBlocked)

	// A long open slide is fine.
	_, err = g.MakeMove(White, Position{Row: 4, Col: 3}, Position{Row: 1, Col: 6})
	require.NoError(t, err)
}

func TestWinByEliminatingAllPieces(t *testing.T) {
	g := playingGameWith(t, map[Position]Piece{
		{Row: 5, Col: 0}: {Rank: Man, Color: White},
		{Row: 4, Col: 1}: {Rank: Man, Color: Black},
	})

	_, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 3, Col: 2})
	require.NoError(t, err)

	st := g.State()
	assert.Equal(t, StatusFinished, st.GameStatus)
	require.NotNil(t, st.Winner)
	assert.Equal(t, White, *st.Winner)

	// No further moves are accepted.
	_, err = g.MakeMove(Black, Position{Row: 2, Col: 1}, Position{Row: 3, Col: 0})
	assert.ErrorIs(t, err, ErrGameNotStarted)
}

func TestWinWhenOpponentHasNoMoves(t *testing.T) {
	// Black's lone man ends up boxed in the corner column: pieces remain
	// but no legal move does.
	g := playingGameWith(t, map[Position]Piece{
		{Row: 6, Col: 1}: {Rank: Man, Color: White},
		{Row: 5, Col: 2}: {Rank: Man, Color: White},
		{Row: 7, Col: 0}: {Rank: Man, Color: Black},
	})
	g.turn = White

	_, err := g.MakeMove(White, Position{Row: 5, Col: 2}, Position{Row: 4, Col: 3})
	require.NoError(t, err)

	st := g.State()
	assert.Equal(t, StatusFinished, st.GameStatus)
	require.NotNil(t, st.Winner)
	assert.Equal(t, White, *st.Winner)
}

func TestResetRestoresStartAndIsIdempotent(t *testing.T) {
	g := newPlayingGame(t)
	_, err := g.MakeMove(White, Position{Row: 5, Col: 0}, Position{Row: 4, Col: 1})
	require.NoError(t, err)

	g.Reset()
	once, err := json.Marshal(g.State())
	require.NoError(t, err)

	g.Reset()
	twice, err := json.Marshal(g.State())
	require.NoError(t, err)
	assert.JSONEq(t, string(once), string(twice))

	st := g.State()
	assert.Equal(t, StatusPlaying, st.GameStatus)
	assert.Equal(t, White, st.CurrentPlayer)
	assert.Nil(t, st.Winner)
	assert.Nil(t, st.LastMove)
	assert.Equal(t, 12, st.Board.Count(White))
	assert.Equal(t, 12, st.Board.Count(Black))

	// Slots survive the reset.
	_, ok := g.ColorOf("conn-w")
	assert.True(t, ok)
}

func TestRemovePlayerVacatesSlot(t *testing.T) {
	g := newPlayingGame(t)

	g.RemovePlayer("conn-b")
	_, ok := g.ColorOf("conn-b")
	assert.False(t, ok)
	assert.False(t, g.Empty())

	// Game keeps its status; it is unplayable, not destroyed.
	assert.Equal(t, StatusPlaying, g.State().GameStatus)

	g.RemovePlayer("conn-w")
	assert.True(t, g.Empty())

	// The open slot can be re-filled for a rejoin.
	c, err := g.AddPlayer("conn-b2", "bob")
	require.NoError(t, err)
	assert.Equal(t, White, c)
}
