package game

import "errors"

// Rule violations surfaced to the offending player only. All leave the
// session unchanged; the sender may retry.
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidPiece    = errors.New("no piece of yours on that square")
	ErrCaptureRequired = errors.New("capture is mandatory")
	ErrInvalidCapture  = errors.New("invalid capture")
	ErrInvalidMove     = errors.New("invalid move")
	ErrPathBlocked     = errors.New("path is blocked")
	ErrGameNotStarted  = errors.New("game is not in progress")
	ErrRoomFull        = errors.New("room is full")
)
