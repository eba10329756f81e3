package game

import (
	"log"
	"math/rand/v2"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/effect"
)

// Clock is game time in ms. It only advances while Running. Epoch changes on
// every restart so timers from an earlier session never fire.
type Clock struct {
	Now   float64
	Epoch uint32
	seq   uint64
	// clears counts TimerClear timers of this epoch that have not fired.
	clears int
}

// Inbox holds the command to apply on the next frame.
type Inbox struct {
	Command Command
}

// Events buffers transitions until the host drains them.
type Events struct {
	list []Event
}

func (e *Events) push(ev Event) {
	e.list = append(e.list, ev)
}

func (e *Events) drain() []Event {
	out := e.list
	e.list = nil
	return out
}

// Rules is the immutable per-game setup systems read from.
type Rules struct {
	Config Config
	Rand   *rand.Rand
	Picker effect.Picker
	Logger *log.Logger
}

// TimerAction is what a Timer does when it comes due.
type TimerAction uint8

const (
	TimerClear TimerAction = iota
	TimerEffect
)

// Timer is a transition scheduled on the game clock.
type Timer struct {
	DueAt  float64
	Seq    uint64
	Epoch  uint32
	Action TimerAction
	Effect effect.Deferred
}

type ParticleEntity struct {
	ecs.EntityId
	*effect.Particle
}

type AnimationEntity struct {
	ecs.EntityId
	*effect.Animation
}

type TimerEntity struct {
	ecs.EntityId
	*Timer
}
