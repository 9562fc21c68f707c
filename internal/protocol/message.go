// Package protocol implements the line-delimited text protocol spoken with
// the game clients: one command per line, fields separated by commas.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	ActionColor = "COLOR"
	ActionMove  = "MOVE"
	ActionReset = "RESET"
	ActionFull  = "FULL"
	ActionStart = "START"
	ActionWin   = "WIN"

	separator = ","
)

// Delimiter terminates every message on a stream transport.
const Delimiter = "\n"

// ColorFormat selects how the WIN message names the winner.
type ColorFormat string

const (
	// FormatSymbolic writes black/white.
	FormatSymbolic ColorFormat = "symbolic"
	// FormatNumeric writes 1/2, the board cell values used by the desktop client.
	FormatNumeric ColorFormat = "numeric"
)

func ParseColorFormat(value string) (ColorFormat, error) {
	switch ColorFormat(value) {
	case FormatSymbolic, "":
		return FormatSymbolic, nil
	case FormatNumeric:
		return FormatNumeric, nil
	default:
		return "", fmt.Errorf("unknown color format %q", value)
	}
}

// Command is a parsed client message.
type Command struct {
	Action string
	Color  entity.Color
	X      int
	Y      int
}

// Parse - decodes a single client line.
func Parse(line string) (Command, error) {
	fields := strings.Split(strings.TrimSpace(line), separator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	switch fields[0] {
	case ActionColor:
		return parseColor(fields)
	case ActionMove:
		return parseMove(fields)
	case ActionReset:
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", apperror.ErrMalformedMessage, ActionReset)
		}

		return Command{Action: ActionReset}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", apperror.ErrUnknownCommand, fields[0])
	}
}

func parseColor(fields []string) (Command, error) {
	if len(fields) != 2 {
		return Command{}, fmt.Errorf("%w: %s expects 1 argument, got %d", apperror.ErrMalformedMessage, ActionColor, len(fields)-1)
	}

	color, err := entity.ParseColor(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	return Command{Action: ActionColor, Color: color}, nil
}

func parseMove(fields []string) (Command, error) {
	if len(fields) != 3 {
		return Command{}, fmt.Errorf("%w: %s expects 2 arguments, got %d", apperror.ErrMalformedMessage, ActionMove, len(fields)-1)
	}

	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("%w: bad x: %w", apperror.ErrMalformedMessage, err)
	}

	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return Command{}, fmt.Errorf("%w: bad y: %w", apperror.ErrMalformedMessage, err)
	}

	return Command{Action: ActionMove, X: x, Y: y}, nil
}

func Full() string {
	return ActionFull
}

func Start(color entity.Color) string {
	return ActionStart + separator + color.String()
}

func Move(x, y int) string {
	return ActionMove + separator + strconv.Itoa(x) + separator + strconv.Itoa(y)
}

func Win(color entity.Color, format ColorFormat) string {
	if format == FormatNumeric {
		return ActionWin + separator + strconv.Itoa(int(color))
	}

	return ActionWin + separator + color.String()
}

func Reset() string {
	return ActionReset
}
