package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/protocol"
)

// MaxPlayers is the size of the table.
const MaxPlayers = 2

const defaultOutboxSize = 16

type snapshotPublisher interface {
	Offer(snapshot entity.Snapshot)
}

type Options struct {
	OutboxSize int
	WinFormat  protocol.ColorFormat
}

// Session is the single game table. Every method takes the session mutex, so
// each inbound message is applied to completion before the next one.
type Session struct {
	logger    *slog.Logger
	publisher snapshotPublisher

	outboxSize int
	winFormat  protocol.ColorFormat

	mu      sync.Mutex
	players []*Player
	game    *gomoku.Game
}

// NewSession - publisher may be nil.
func NewSession(logger *slog.Logger, opts Options, publisher snapshotPublisher) *Session {
	if opts.OutboxSize <= 0 {
		opts.OutboxSize = defaultOutboxSize
	}

	if opts.WinFormat == "" {
		opts.WinFormat = protocol.FormatSymbolic
	}

	return &Session{
		logger:     logger.With("component", "session"),
		publisher:  publisher,
		outboxSize: opts.OutboxSize,
		winFormat:  opts.WinFormat,
		game:       gomoku.NewGame(),
	}
}

// Admit - adds a new connection to the table, ErrSessionFull when two players are seated.
func (that *Session) Admit(id string) (*Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Admit", "player_id", id)

	// every seated connection may hold a color, so at most two players are ever colored
	if len(that.players) >= MaxPlayers {
		log.Info("session is full, connection refused")
		return nil, fmt.Errorf("%w: %d players", apperror.ErrSessionFull, len(that.players))
	}

	player := newPlayer(id, that.outboxSize)
	that.players = append(that.players, player)

	log.Info("player admitted", "players", len(that.players))
	that.publish()

	return player, nil
}

// Handle - parses one protocol line from the player and applies it.
// Malformed and invalid input is dropped without a reply.
func (that *Session) Handle(ctx context.Context, player *Player, line string) {
	log := that.logger.With("method", "Handle", "player_id", player.ID)

	command, err := protocol.Parse(line)
	if err != nil {
		log.DebugContext(ctx, "dropping message", "line", line, "error", err)
		return
	}

	switch command.Action {
	case protocol.ActionColor:
		err = that.RequestColor(player, command.Color)
	case protocol.ActionMove:
		err = that.SubmitMove(player, command.X, command.Y)
	case protocol.ActionReset:
		err = that.Reset(player)
	}

	switch {
	case err == nil:
	case isIgnorable(err):
		log.DebugContext(ctx, "command ignored", "action", command.Action, "error", err)
	default:
		log.WarnContext(ctx, "command failed", "action", command.Action, "error", err)
	}
}

// RequestColor - runs one negotiation step for the player.
func (that *Session) RequestColor(player *Player, color entity.Color) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	defer that.evict()

	if !that.isSeated(player) {
		return apperror.ErrPlayerNotFound
	}

	log := that.logger.With("method", "RequestColor", "player_id", player.ID)

	result, err := that.game.RequestColor(player.ID, color, that.playerIDs())
	if err != nil {
		return fmt.Errorf("color request rejected: %w", err)
	}

	if result.Granted {
		log.Info("player picked color", "color", color)
	}

	if result.Started {
		that.start()
	}

	that.publish()

	if !result.Granted {
		return fmt.Errorf("%w: %s", apperror.ErrColorTaken, color)
	}

	return nil
}

// SubmitMove - applies the move of the player and broadcasts the outcome.
func (that *Session) SubmitMove(player *Player, x, y int) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	defer that.evict()

	if !that.isSeated(player) {
		return apperror.ErrPlayerNotFound
	}

	move, err := that.game.SubmitMove(player.ID, x, y)
	if err != nil {
		return fmt.Errorf("move rejected: %w", err)
	}

	that.broadcast(protocol.Move(move.X, move.Y))

	if move.IsWinning() {
		that.logger.Info("game won", "winner", move.Winner, "moves", that.game.Moves())
		that.broadcast(protocol.Win(move.Winner, that.winFormat))
		that.publish()
		that.reset()

		return nil
	}

	that.publish()

	return nil
}

// Reset - clears the table on request of a player.
func (that *Session) Reset(player *Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	defer that.evict()

	if !that.isSeated(player) {
		return apperror.ErrPlayerNotFound
	}

	that.logger.Info("reset requested", "player_id", player.ID)
	that.reset()

	return nil
}

// Remove - drops the player; a game in progress is reset for the others.
// Safe to call more than once.
func (that *Session) Remove(player *Player) {
	that.mu.Lock()
	defer that.mu.Unlock()
	defer that.evict()

	index := slices.Index(that.players, player)
	if index < 0 {
		return
	}

	that.players = slices.Delete(that.players, index, index+1)
	player.close()

	log := that.logger.With("method", "Remove", "player_id", player.ID)
	log.Info("player left", "players", len(that.players))

	if that.game.Leave(player.ID) {
		log.Info("game interrupted by disconnect")
		that.reset()

		return
	}

	that.publish()
}

// Snapshot - returns a copy of the current table state.
func (that *Session) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Snapshot(len(that.players))
}

// start - tells every colored player its color.
func (that *Session) start() {
	that.logger.Info("game started, black moves first")

	for _, player := range that.players {
		color := that.game.ColorOf(player.ID)
		if color == entity.ColorNone {
			continue
		}

		if !player.send(protocol.Start(color)) {
			that.logger.Warn("failed to notify player", "player_id", player.ID, "message", protocol.ActionStart)
		}
	}
}

// reset - broadcasts RESET and returns the game to NotStarted.
func (that *Session) reset() {
	that.broadcast(protocol.Reset())
	that.game.Reset()
	that.logger.Info("game reset, waiting for color selection")
	that.publish()
}

// broadcast - never blocks; a player whose outbox is full is evicted afterwards.
func (that *Session) broadcast(msg string) {
	for _, player := range that.players {
		if !player.send(msg) {
			that.logger.Warn("failed to deliver message", "player_id", player.ID, "message", msg)
		}
	}
}

// evict - drops players whose outbox overflowed; a game in progress is reset
// for the others.
func (that *Session) evict() {
	for {
		index := slices.IndexFunc(that.players, (*Player).isOverflowed)
		if index < 0 {
			return
		}

		player := that.players[index]
		that.players = slices.Delete(that.players, index, index+1)
		player.close()

		log := that.logger.With("method", "evict", "player_id", player.ID)
		log.Warn("player evicted, outbox overflowed", "players", len(that.players))

		if that.game.Leave(player.ID) {
			that.reset()
			continue
		}

		that.publish()
	}
}

func (that *Session) publish() {
	if that.publisher == nil {
		return
	}

	that.publisher.Offer(that.game.Snapshot(len(that.players)))
}

func (that *Session) isSeated(player *Player) bool {
	return player != nil && slices.Contains(that.players, player)
}

func (that *Session) playerIDs() []string {
	ids := make([]string, 0, len(that.players))
	for _, player := range that.players {
		ids = append(ids, player.ID)
	}

	return ids
}

// isIgnorable - validation errors are expected traffic and dropped silently.
func isIgnorable(err error) bool {
	for _, target := range []error{
		apperror.ErrGameIsNotStarted,
		apperror.ErrNotYourTurn,
		apperror.ErrCellOccupied,
		apperror.ErrOutOfBounds,
		apperror.ErrColorTaken,
		apperror.ErrColorSelectionClosed,
		apperror.ErrInvalidColor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
