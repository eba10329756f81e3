package game

import "fmt"

// State is the machine state.
type State uint8

const (
	Running State = iota
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Command is a discrete player input.
type Command uint8

const (
	NoCommand Command = iota
	MoveLeft
	MoveRight
	SoftDrop
	Rotate
	HardDrop
	TogglePause
	Restart
)

func (c Command) String() string {
	switch c {
	case NoCommand:
		return "none"
	case MoveLeft:
		return "move-left"
	case MoveRight:
		return "move-right"
	case SoftDrop:
		return "soft-drop"
	case Rotate:
		return "rotate"
	case HardDrop:
		return "hard-drop"
	case TogglePause:
		return "pause"
	case Restart:
		return "restart"
	default:
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
}

// Counters are the session totals plus gravity bookkeeping.
type Counters struct {
	Score int
	Level int
	Lines int
	// DropInterval and DropCounter are in ms.
	DropInterval float64
	DropCounter  float64
	State        State
}

// EventKind tags an Event.
type EventKind uint8

const (
	EventLocked EventKind = iota
	EventCleared
	EventLevelUp
	EventGameOver
	EventRestarted
)

func (k EventKind) String() string {
	switch k {
	case EventLocked:
		return "locked"
	case EventCleared:
		return "cleared"
	case EventLevelUp:
		return "level-up"
	case EventGameOver:
		return "game-over"
	case EventRestarted:
		return "restarted"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a notable transition hosts may react to (sound, UI flashes).
// Value is the row count for EventCleared, the new level for EventLevelUp
// and the final score for EventGameOver.
type Event struct {
	Kind  EventKind
	Value int
}
