package gomoku

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Game is the turn state machine of a single table. It is not safe for
// concurrent use; the session serializes every call.
type Game struct {
	board  *entity.Board
	turn   entity.TurnState
	colors *Negotiator
	moves  int
}

// Negotiation is the outcome of a color request.
type Negotiation struct {
	// Granted is false when the requested color was already taken.
	Granted bool
	// Started is true when this request completed the assignment and opened play.
	Started bool
}

// Move is an accepted stone placement.
type Move struct {
	X      int
	Y      int
	Color  entity.Color
	Winner entity.Color
}

func (that Move) IsWinning() bool {
	return that.Winner != entity.ColorNone
}

func NewGame() *Game {
	return &Game{
		board:  entity.NewBoard(),
		turn:   entity.NewTurnState(),
		colors: NewNegotiator(),
	}
}

// RequestColor - runs one negotiation step: assignment, auto-complete of the
// connected players and the start check.
func (that *Game) RequestColor(playerID string, color entity.Color, connected []string) (Negotiation, error) {
	if !that.turn.IsNotStarted() {
		return Negotiation{}, apperror.ErrColorSelectionClosed
	}

	var result Negotiation

	err := that.colors.Request(playerID, color)
	switch {
	case err == nil:
		result.Granted = true
	case errors.Is(err, apperror.ErrColorTaken):
	default:
		return Negotiation{}, fmt.Errorf("failed to request color: %w", err)
	}

	that.colors.AutoComplete(connected)

	if that.colors.IsComplete() {
		that.turn = that.turn.Start()
		result.Started = true
	}

	return result, nil
}

// SubmitMove - validates and applies a move of the given player.
// A winning move leaves the game Finished until Reset is called.
func (that *Game) SubmitMove(playerID string, x, y int) (Move, error) {
	if !that.turn.IsOngoing() {
		return Move{}, apperror.ErrGameIsNotStarted
	}

	color := that.colors.ColorOf(playerID)
	if !that.turn.IsTurnOf(color) {
		return Move{}, apperror.ErrNotYourTurn
	}

	if err := that.board.Place(x, y, color); err != nil {
		return Move{}, fmt.Errorf("invalid move: %w", err)
	}

	that.moves++

	move := Move{X: x, Y: y, Color: color}

	if CheckWin(that.board, x, y, color) {
		move.Winner = color
		that.turn = that.turn.Finish(color)

		return move, nil
	}

	that.turn = that.turn.Next()

	return move, nil
}

// Reset - returns to NotStarted with an empty board and free colors.
func (that *Game) Reset() {
	that.board.Clear()
	that.turn = entity.NewTurnState()
	that.colors.Clear()
	that.moves = 0
}

// Leave - frees the player's color and reports whether a game was in progress.
func (that *Game) Leave(playerID string) bool {
	that.colors.Release(playerID)

	return !that.turn.IsNotStarted()
}

func (that *Game) ColorOf(playerID string) entity.Color {
	return that.colors.ColorOf(playerID)
}

func (that *Game) Turn() entity.TurnState {
	return that.turn
}

func (that *Game) Board() *entity.Board {
	return that.board
}

func (that *Game) Moves() int {
	return that.moves
}

// Snapshot - returns a copy of the game state.
func (that *Game) Snapshot(players int) entity.Snapshot {
	snapshot := entity.Snapshot{
		Board:     that.board.Rows(),
		Phase:     that.turn.Phase,
		Black:     that.colors.IsTaken(entity.ColorBlack),
		White:     that.colors.IsTaken(entity.ColorWhite),
		Players:   players,
		Moves:     that.moves,
		UpdatedAt: time.Now().UTC(),
	}

	switch {
	case that.turn.IsOngoing():
		snapshot.Turn = that.turn.Color.String()
	case that.turn.IsFinished():
		snapshot.Winner = that.turn.Color.String()
	}

	return snapshot
}
