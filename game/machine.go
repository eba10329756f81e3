package game

import (
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/piece"
)

// Machine bundles the singletons every system of the state machine touches
// and the transitions between them. Systems embed it; the Scheduler binds it
// through Init like any other field.
type Machine struct {
	Grid     ecs.Singleton[board.Grid]
	Session  ecs.Singleton[piece.Session]
	Counters ecs.Singleton[Counters]
	Clock    ecs.Singleton[Clock]
	Events   ecs.Singleton[Events]
	Rules    ecs.Singleton[Rules]

	storage *ecs.Storage
	timers  *ecs.View[TimerEntity]
}

func (m *Machine) Init(storage *ecs.Storage) {
	m.storage = storage
	m.timers = ecs.NewView[TimerEntity](storage)
	m.Grid.Init(storage)
	m.Session.Init(storage)
	m.Counters.Init(storage)
	m.Clock.Init(storage)
	m.Events.Init(storage)
	m.Rules.Init(storage)
}

func (m *Machine) running() bool {
	return m.Counters.Get().State == Running
}

// start resets everything but the clock epoch and spawns the first pieces.
func (m *Machine) start() {
	cfg := m.Rules.Get().Config
	m.Grid.Get().Reset()
	m.Session.Get().Reset()
	*m.Counters.Get() = Counters{
		Level:        1,
		DropInterval: cfg.DropInterval(1),
		State:        Running,
	}
	clock := m.Clock.Get()
	clock.Now = 0
	clock.clears = 0

	// An empty grid always has room for the first piece.
	m.Session.Get().Spawn()
	m.spawn()
}

func (m *Machine) restart() {
	m.Clock.Get().Epoch++
	m.start()
	m.Events.Get().push(Event{Kind: EventRestarted})
	m.Rules.Get().Logger.Printf("restart (epoch %d)", m.Clock.Get().Epoch)
}

func (m *Machine) togglePause() {
	c := m.Counters.Get()
	switch c.State {
	case Running:
		c.State = Paused
	case Paused:
		c.State = Running
	default:
		return
	}
	m.Rules.Get().Logger.Printf("state: %s", c.State)
}

// gravity moves the active piece down one row, locking it if it cannot.
func (m *Machine) gravity(cmds *ecs.Commands) {
	if m.Session.Get().Fall(m.Grid.Get()) {
		return
	}
	m.lock(cmds)
}

func (m *Machine) hardDrop(cmds *ecs.Commands) {
	m.Session.Get().Drop(m.Grid.Get())
	m.lock(cmds)
}

// lock merges the active piece, runs effects on its blocks, clears rows now
// or later, and brings in the next piece.
func (m *Machine) lock(cmds *ecs.Commands) {
	grid, session, rules := m.Grid.Get(), m.Session.Get(), m.Rules.Get()
	if session.Active == nil {
		return
	}

	placed := session.Active.Merge(grid)
	m.Events.Get().push(Event{Kind: EventLocked, Value: len(placed)})

	cfg := rules.Config
	if cfg.Effects {
		for _, b := range placed {
			m.applyEffect(cmds, rules.Picker.Pick(), b)
		}
	}

	if cfg.Effects && cfg.ClearDelay > 0 {
		m.schedule(cmds, cfg.ClearDelay, Timer{Action: TimerClear})
	} else {
		m.clearLines()
	}

	if !m.spawn() {
		m.end(cmds)
	}
}

func (m *Machine) applyEffect(cmds *ecs.Commands, kind effect.Kind, b piece.Placed) {
	r := effect.Apply(kind, m.Grid.Get(), m.Rules.Get().Rand, b.X, b.Y, b.Value)
	m.Counters.Get().Score += r.Score
	for _, p := range r.Particles {
		cmds.Spawn(p)
	}
	for _, a := range r.Animations {
		cmds.Spawn(a)
	}
	for _, d := range r.Deferred {
		m.schedule(cmds, d.Delay, Timer{Action: TimerEffect, Effect: d})
	}
}

func (m *Machine) schedule(cmds *ecs.Commands, delay float64, t Timer) {
	clock := m.Clock.Get()
	clock.seq++
	t.DueAt = clock.Now + delay
	t.Seq = clock.seq
	t.Epoch = clock.Epoch
	if t.Action == TimerClear {
		clock.clears++
	}
	cmds.Spawn(t)
}

func (m *Machine) fire(cmds *ecs.Commands, t Timer) {
	switch t.Action {
	case TimerClear:
		if clock := m.Clock.Get(); clock.clears > 0 {
			clock.clears--
		}
		m.clearLines()
	case TimerEffect:
		d := t.Effect
		switch d.Action {
		case effect.ActionPlace:
			m.Counters.Get().Score += effect.PlaceLanding(m.Grid.Get(), d)
		case effect.ActionTrail:
			for _, p := range effect.MeltTrail(d.X, d.Y, d.ToY, d.Value) {
				cmds.Spawn(p)
			}
		}
	}
}

// clearLines removes full rows and scores them at the level in force
// before the clear.
func (m *Machine) clearLines() {
	n := m.Grid.Get().ClearFullRows()
	if n == 0 {
		return
	}

	c, rules, events := m.Counters.Get(), m.Rules.Get(), m.Events.Get()
	c.Lines += n
	c.Score += n * 100 * c.Level
	events.push(Event{Kind: EventCleared, Value: n})

	if level := c.Lines/rules.Config.LinesPerLevel + 1; level != c.Level {
		c.Level = level
		c.DropInterval = rules.Config.DropInterval(level)
		events.push(Event{Kind: EventLevelUp, Value: level})
		rules.Logger.Printf("level %d, drop interval %.0fms", level, c.DropInterval)
	}
}

// spawn brings in the next piece. False means it collided on entry.
func (m *Machine) spawn() bool {
	grid, session := m.Grid.Get(), m.Session.Get()
	session.Spawn()
	return !session.Blocked(grid)
}

// end freezes the game. Line clears still waiting on their delay are applied
// first so the last locks are scored.
func (m *Machine) end(cmds *ecs.Commands) {
	if clock := m.Clock.Get(); clock.clears > 0 {
		clock.clears = 0
		m.clearLines()
		// The timer from this lock is only spawned at flush.
		cmds.Defer(m.dropClearTimers)
	}

	c := m.Counters.Get()
	c.State = GameOver
	m.Events.Get().push(Event{Kind: EventGameOver, Value: c.Score})
	m.Rules.Get().Logger.Printf("game over: score %d, lines %d, level %d", c.Score, c.Lines, c.Level)
}

func (m *Machine) dropClearTimers() {
	epoch := m.Clock.Get().Epoch
	var ids []ecs.EntityId
	for id, t := range m.timers.Iter() {
		if t.Action == TimerClear && t.Epoch == epoch {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		m.storage.Delete(id)
	}
}
