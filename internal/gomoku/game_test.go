package gomoku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var bothPlayers = []string{"p1", "p2"}

// startedGame - returns a game where p1 plays black and p2 plays white.
func startedGame(t *testing.T) *Game {
	t.Helper()

	game := NewGame()
	result, err := game.RequestColor("p1", entity.ColorBlack, bothPlayers)
	require.NoError(t, err)
	require.True(t, result.Started)

	return game
}

func TestGame_RequestColor(t *testing.T) {
	t.Run("Single player waits for an opponent", func(t *testing.T) {
		// Given: one connected player
		game := NewGame()

		// When: the player asks for black
		result, err := game.RequestColor("p1", entity.ColorBlack, []string{"p1"})

		// Then: black is granted but the game has not started
		require.NoError(t, err)
		assert.True(t, result.Granted)
		assert.False(t, result.Started)
		assert.True(t, game.Turn().IsNotStarted())
	})

	t.Run("One request colors both connected players and starts", func(t *testing.T) {
		game := NewGame()

		result, err := game.RequestColor("p2", entity.ColorWhite, bothPlayers)

		require.NoError(t, err)
		assert.True(t, result.Started)
		assert.Equal(t, entity.ColorWhite, game.ColorOf("p2"))
		assert.Equal(t, entity.ColorBlack, game.ColorOf("p1"))
		assert.True(t, game.Turn().IsTurnOf(entity.ColorBlack))
	})

	t.Run("Lost race is completed with the other color", func(t *testing.T) {
		// Given: p1 already holds black, p2 connected later
		game := NewGame()
		_, err := game.RequestColor("p1", entity.ColorBlack, []string{"p1"})
		require.NoError(t, err)

		// When: p2 also asks for black
		result, err := game.RequestColor("p2", entity.ColorBlack, bothPlayers)

		// Then: p2 silently gets white and play starts
		require.NoError(t, err)
		assert.False(t, result.Granted)
		assert.True(t, result.Started)
		assert.Equal(t, entity.ColorWhite, game.ColorOf("p2"))
	})

	t.Run("Closed once play has begun", func(t *testing.T) {
		game := startedGame(t)

		_, err := game.RequestColor("p2", entity.ColorBlack, bothPlayers)

		require.ErrorIs(t, err, apperror.ErrColorSelectionClosed)
		assert.Equal(t, entity.ColorWhite, game.ColorOf("p2"))
	})

	t.Run("Invalid color does not touch the slots", func(t *testing.T) {
		game := NewGame()

		_, err := game.RequestColor("p1", entity.ColorNone, bothPlayers)

		require.ErrorIs(t, err, apperror.ErrInvalidColor)
		assert.Equal(t, entity.ColorNone, game.ColorOf("p1"))
		assert.Equal(t, entity.ColorNone, game.ColorOf("p2"))
	})
}

func TestGame_SubmitMove(t *testing.T) {
	t.Run("Accepted moves alternate colors", func(t *testing.T) {
		game := startedGame(t)

		move, err := game.SubmitMove("p1", 7, 7)
		require.NoError(t, err)
		assert.Equal(t, Move{X: 7, Y: 7, Color: entity.ColorBlack}, move)
		assert.True(t, game.Turn().IsTurnOf(entity.ColorWhite))

		move, err = game.SubmitMove("p2", 7, 8)
		require.NoError(t, err)
		assert.Equal(t, entity.ColorWhite, move.Color)
		assert.True(t, game.Turn().IsTurnOf(entity.ColorBlack))
		assert.Equal(t, 2, game.Moves())
	})

	t.Run("Wrong player is a no-op", func(t *testing.T) {
		// Given: it is black's turn
		game := startedGame(t)

		// When: white tries to move
		_, err := game.SubmitMove("p2", 0, 0)

		// Then: nothing changes
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, 0, game.Board().Count())
		assert.True(t, game.Turn().IsTurnOf(entity.ColorBlack))
	})

	t.Run("Occupied cell is a no-op", func(t *testing.T) {
		game := startedGame(t)
		_, err := game.SubmitMove("p1", 7, 7)
		require.NoError(t, err)

		_, err = game.SubmitMove("p2", 7, 7)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, 1, game.Board().Count())
		assert.True(t, game.Turn().IsTurnOf(entity.ColorWhite))
	})

	t.Run("Out of bounds is a no-op", func(t *testing.T) {
		game := startedGame(t)

		_, err := game.SubmitMove("p1", 15, 0)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.True(t, game.Turn().IsTurnOf(entity.ColorBlack))
	})

	t.Run("Uncolored player cannot move", func(t *testing.T) {
		game := startedGame(t)

		_, err := game.SubmitMove("stranger", 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("No moves before the start", func(t *testing.T) {
		game := NewGame()

		_, err := game.SubmitMove("p1", 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Five in a row finishes the game", func(t *testing.T) {
		// Given: black at (7,7)..(7,10) and white elsewhere
		game := startedGame(t)
		for i := 0; i < 4; i++ {
			_, err := game.SubmitMove("p1", 7, 7+i)
			require.NoError(t, err)
			_, err = game.SubmitMove("p2", 0, i)
			require.NoError(t, err)
		}

		// When: black plays (7,11)
		move, err := game.SubmitMove("p1", 7, 11)

		// Then: black wins and no more moves are accepted
		require.NoError(t, err)
		assert.True(t, move.IsWinning())
		assert.Equal(t, entity.ColorBlack, move.Winner)
		assert.True(t, game.Turn().IsFinished())

		_, err = game.SubmitMove("p2", 1, 1)
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})
}

func TestGame_BoardMatchesMoveHistory(t *testing.T) {
	game := startedGame(t)
	players := map[entity.Color]string{entity.ColorBlack: "p1", entity.ColorWhite: "p2"}
	moves := [][2]int{{0, 0}, {14, 14}, {3, 9}, {9, 3}, {5, 5}, {6, 2}}

	color := entity.ColorBlack
	for n, point := range moves {
		_, err := game.SubmitMove(players[color], point[0], point[1])
		require.NoError(t, err)

		assert.Equal(t, n+1, game.Board().Count())
		assert.Equal(t, color, game.Board().At(point[0], point[1]))

		color = color.Opponent()
	}
}

func TestGame_Reset(t *testing.T) {
	game := startedGame(t)
	_, err := game.SubmitMove("p1", 3, 3)
	require.NoError(t, err)

	game.Reset()

	assert.True(t, game.Turn().IsNotStarted())
	assert.Equal(t, 0, game.Board().Count())
	assert.Equal(t, 0, game.Moves())
	assert.Equal(t, entity.ColorNone, game.ColorOf("p1"))
	assert.Equal(t, entity.ColorNone, game.ColorOf("p2"))

	// a new round can be negotiated
	result, err := game.RequestColor("p2", entity.ColorBlack, bothPlayers)
	require.NoError(t, err)
	assert.True(t, result.Started)
	assert.Equal(t, entity.ColorBlack, game.ColorOf("p2"))
}

func TestGame_Leave(t *testing.T) {
	t.Run("Before the start only frees the slot", func(t *testing.T) {
		game := NewGame()
		_, err := game.RequestColor("p1", entity.ColorBlack, []string{"p1"})
		require.NoError(t, err)

		inProgress := game.Leave("p1")

		assert.False(t, inProgress)
		assert.Equal(t, entity.ColorNone, game.ColorOf("p1"))

		// black is free again
		result, err := game.RequestColor("p3", entity.ColorBlack, []string{"p3"})
		require.NoError(t, err)
		assert.True(t, result.Granted)
	})

	t.Run("During play reports the interruption", func(t *testing.T) {
		game := startedGame(t)

		assert.True(t, game.Leave("p2"))
	})
}

func TestGame_Snapshot(t *testing.T) {
	game := startedGame(t)
	_, err := game.SubmitMove("p1", 4, 2)
	require.NoError(t, err)

	snapshot := game.Snapshot(2)

	assert.Equal(t, entity.PhaseTurn, snapshot.Phase)
	assert.Equal(t, "white", snapshot.Turn)
	assert.Empty(t, snapshot.Winner)
	assert.True(t, snapshot.Black)
	assert.True(t, snapshot.White)
	assert.Equal(t, 2, snapshot.Players)
	assert.Equal(t, 1, snapshot.Moves)
	assert.Equal(t, entity.ColorBlack, snapshot.Board[2][4])
	assert.False(t, snapshot.UpdatedAt.IsZero())
}
