package entity

const (
	PhaseNotStarted = "not_started"
	PhaseTurn       = "turn"
	PhaseFinished   = "finished"
)

// TurnState - whose turn it is, or the winner once finished.
type TurnState struct {
	Phase string
	Color Color
}

func NewTurnState() TurnState {
	return TurnState{Phase: PhaseNotStarted}
}

func (that TurnState) IsNotStarted() bool {
	return that.Phase == PhaseNotStarted
}

func (that TurnState) IsOngoing() bool {
	return that.Phase == PhaseTurn
}

func (that TurnState) IsFinished() bool {
	return that.Phase == PhaseFinished
}

// IsTurnOf - reports whether the given color may move now.
func (that TurnState) IsTurnOf(color Color) bool {
	return that.IsOngoing() && color.IsStone() && that.Color == color
}

// Start - black always opens.
func (that TurnState) Start() TurnState {
	return TurnState{Phase: PhaseTurn, Color: ColorBlack}
}

func (that TurnState) Next() TurnState {
	return TurnState{Phase: PhaseTurn, Color: that.Color.Opponent()}
}

func (that TurnState) Finish(winner Color) TurnState {
	return TurnState{Phase: PhaseFinished, Color: winner}
}
