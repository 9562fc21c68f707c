package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// Color is the value of a board cell and the role of a player.
type Color int

const (
	ColorNone Color = iota
	ColorBlack
	ColorWhite
)

const (
	blackName = "black"
	whiteName = "white"
)

func ParseColor(name string) (Color, error) {
	switch name {
	case blackName:
		return ColorBlack, nil
	case whiteName:
		return ColorWhite, nil
	default:
		return ColorNone, fmt.Errorf("%w: %q", apperror.ErrInvalidColor, name)
	}
}

func (that Color) String() string {
	switch that {
	case ColorBlack:
		return blackName
	case ColorWhite:
		return whiteName
	default:
		return ""
	}
}

// Opponent - returns the other stone color; ColorNone has no opponent.
func (that Color) Opponent() Color {
	switch that {
	case ColorBlack:
		return ColorWhite
	case ColorWhite:
		return ColorBlack
	default:
		return ColorNone
	}
}

func (that Color) IsStone() bool {
	return that == ColorBlack || that == ColorWhite
}
