package game

import (
	"cmp"
	"slices"

	"github.com/plus3/blockfall/ecs"
)

// ClockSystem advances the game clock. It runs first so anything scheduled
// during a frame is timed from the end of that frame.
type ClockSystem struct {
	Machine
}

func (s *ClockSystem) Execute(frame *ecs.UpdateFrame) {
	if s.running() {
		s.Clock.Get().Now += frame.DeltaTime
	}
}

// InputSystem applies the command queued since the last frame. Pause and
// restart are honored in every state, everything else only while Running.
type InputSystem struct {
	Machine
	Inbox      ecs.Singleton[Inbox]
	Particles  ecs.Query[ParticleEntity]
	Animations ecs.Query[AnimationEntity]
	Timers     ecs.Query[TimerEntity]
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	inbox := s.Inbox.Get()
	cmd := inbox.Command
	inbox.Command = NoCommand

	switch cmd {
	case NoCommand:
	case TogglePause:
		s.togglePause()
	case Restart:
		for id := range s.Particles.Iter() {
			frame.Commands.Delete(id)
		}
		for id := range s.Animations.Iter() {
			frame.Commands.Delete(id)
		}
		for id := range s.Timers.Iter() {
			frame.Commands.Delete(id)
		}
		s.restart()
	default:
		if s.running() {
			s.apply(frame.Commands, cmd)
		}
	}
}

func (s *InputSystem) apply(cmds *ecs.Commands, cmd Command) {
	grid, session := s.Grid.Get(), s.Session.Get()
	switch cmd {
	case MoveLeft:
		session.MoveBy(grid, -1)
	case MoveRight:
		session.MoveBy(grid, 1)
	case Rotate:
		session.Rotate(grid)
	case SoftDrop:
		s.gravity(cmds)
		s.Counters.Get().DropCounter = 0
	case HardDrop:
		s.hardDrop(cmds)
	}
}

// GravitySystem drops the active piece one row each time the drop counter
// passes the drop interval.
type GravitySystem struct {
	Machine
}

func (s *GravitySystem) Execute(frame *ecs.UpdateFrame) {
	if !s.running() {
		return
	}
	c := s.Counters.Get()
	c.DropCounter += frame.DeltaTime
	if c.DropCounter > c.DropInterval {
		c.DropCounter = 0
		s.gravity(frame.Commands)
	}
}

// TimerSystem fires due timers in (due, seq) order.
type TimerSystem struct {
	Machine
	Timers ecs.Query[TimerEntity]

	due []TimerEntity
}

func (s *TimerSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.running() {
		return
	}
	clock := s.Clock.Get()
	s.due = s.due[:0]
	for id, t := range s.Timers.Iter() {
		switch {
		case t.Epoch != clock.Epoch:
			frame.Commands.Delete(id)
		case t.DueAt <= clock.Now:
			s.due = append(s.due, t)
		}
	}
	slices.SortFunc(s.due, func(a, b TimerEntity) int {
		return cmp.Or(cmp.Compare(a.DueAt, b.DueAt), cmp.Compare(a.Seq, b.Seq))
	})

	for _, t := range s.due {
		frame.Commands.Delete(t.EntityId)
		s.fire(frame.Commands, *t.Timer)
	}
}

// ParticleSystem steps every particle once per frame and drops dead ones.
type ParticleSystem struct {
	Counters  ecs.Singleton[Counters]
	Particles ecs.Query[ParticleEntity]
}

func (s *ParticleSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Counters.Get().State != Running {
		return
	}
	for id, p := range s.Particles.Iter() {
		if !p.Step() {
			frame.Commands.Delete(id)
		}
	}
}

// AnimationSystem advances block animations by dt and drops finished ones.
type AnimationSystem struct {
	Counters   ecs.Singleton[Counters]
	Animations ecs.Query[AnimationEntity]
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Counters.Get().State != Running {
		return
	}
	for id, a := range s.Animations.Iter() {
		if !a.Advance(frame.DeltaTime) {
			frame.Commands.Delete(id)
		}
	}
}
