package usecase

// Player is the handle of one admitted connection. The transport drains
// Outbox and writes every message to its connection.
type Player struct {
	ID string

	outbox     chan string
	closed     bool
	overflowed bool
}

func newPlayer(id string, outboxSize int) *Player {
	return &Player{
		ID:     id,
		outbox: make(chan string, outboxSize),
	}
}

// Outbox - is closed once the player has been removed from the session.
func (that *Player) Outbox() <-chan string {
	return that.outbox
}

// send - queues msg without blocking; guarded by the session mutex.
// A full outbox marks the player for eviction.
func (that *Player) send(msg string) bool {
	if that.closed {
		return false
	}

	select {
	case that.outbox <- msg:
		return true
	default:
		that.overflowed = true
		return false
	}
}

func (that *Player) isOverflowed() bool {
	return that.overflowed
}

// close - guarded by the session mutex.
func (that *Player) close() {
	if that.closed {
		return
	}

	that.closed = true
	close(that.outbox)
}
