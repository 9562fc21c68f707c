package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Negotiator holds the two color slots. A slot holds the ID of the player
// that owns it, so a third colored player cannot exist.
type Negotiator struct {
	black string
	white string
}

func NewNegotiator() *Negotiator {
	return &Negotiator{}
}

// Request - tries to give the requested color to the player.
// A player that already has a color keeps it.
func (that *Negotiator) Request(playerID string, color entity.Color) error {
	if current := that.ColorOf(playerID); current != entity.ColorNone {
		if current == color {
			return nil
		}

		return fmt.Errorf("%w: player already plays %s", apperror.ErrColorTaken, current)
	}

	slot, err := that.slot(color)
	if err != nil {
		return err
	}

	if *slot != "" {
		return fmt.Errorf("%w: %s", apperror.ErrColorTaken, color)
	}

	*slot = playerID

	return nil
}

// AutoComplete - gives every uncolored player the remaining free slot, black first.
func (that *Negotiator) AutoComplete(playerIDs []string) {
	for _, id := range playerIDs {
		if that.ColorOf(id) != entity.ColorNone {
			continue
		}

		switch {
		case that.black == "":
			that.black = id
		case that.white == "":
			that.white = id
		default:
			return
		}
	}
}

func (that *Negotiator) ColorOf(playerID string) entity.Color {
	switch {
	case playerID == "":
		return entity.ColorNone
	case that.black == playerID:
		return entity.ColorBlack
	case that.white == playerID:
		return entity.ColorWhite
	default:
		return entity.ColorNone
	}
}

// Owner - returns the ID of the player holding color, empty when free.
func (that *Negotiator) Owner(color entity.Color) string {
	switch color {
	case entity.ColorBlack:
		return that.black
	case entity.ColorWhite:
		return that.white
	default:
		return ""
	}
}

func (that *Negotiator) IsTaken(color entity.Color) bool {
	return that.Owner(color) != ""
}

// IsComplete - both colors are assigned.
func (that *Negotiator) IsComplete() bool {
	return that.black != "" && that.white != ""
}

// Release - frees the slot held by the player, if any.
func (that *Negotiator) Release(playerID string) {
	switch that.ColorOf(playerID) {
	case entity.ColorBlack:
		that.black = ""
	case entity.ColorWhite:
		that.white = ""
	}
}

func (that *Negotiator) Clear() {
	that.black = ""
	that.white = ""
}

func (that *Negotiator) slot(color entity.Color) (*string, error) {
	switch color {
	case entity.ColorBlack:
		return &that.black, nil
	case entity.ColorWhite:
		return &that.white, nil
	default:
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidColor, color)
	}
}
