// Package game is the falling-block state machine: a set of ECS systems run
// once per frame over the grid, the piece session and the effect entities.
package game

import (
	"io"
	"log"
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/piece"
)

// Game owns one play session. It is not safe for concurrent use; hosts call
// Input, Update and Snapshot from a single goroutine.
type Game struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	machine   Machine
	inbox     *ecs.Singleton[Inbox]

	particles  *ecs.View[ParticleEntity]
	animations *ecs.View[AnimationEntity]
	timers     *ecs.View[TimerEntity]
}

// Snapshot is a read-only copy of everything a host needs to draw a frame.
type Snapshot struct {
	Counters
	Cells      [][]board.Cell
	Active     *piece.Piece
	Next       *piece.Piece
	Particles  []effect.Particle
	Animations []effect.Animation
}

// New validates cfg and starts a game in the Running state with an active
// and a next piece.
func New(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	source := cfg.Pieces
	if source == nil {
		source = piece.NewRandomSource(rng)
	}
	picker := cfg.Picker
	if picker == nil {
		picker = effect.NewRandomPicker(rng)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[effect.Particle](registry)
	ecs.RegisterComponent[effect.Animation](registry)
	ecs.RegisterComponent[Timer](registry)

	storage := ecs.NewStorage(registry)
	storage.AddSingleton(board.New(cfg.Cols, cfg.Rows))
	storage.AddSingleton(piece.NewSession(cfg.Cols, source))
	storage.AddSingleton(Counters{})
	storage.AddSingleton(Clock{})
	storage.AddSingleton(Events{})
	storage.AddSingleton(Rules{Config: cfg, Rand: rng, Picker: picker, Logger: logger})

	g := &Game{
		storage:    storage,
		scheduler:  ecs.NewScheduler(storage),
		inbox:      ecs.NewSingleton[Inbox](storage),
		particles:  ecs.NewView[ParticleEntity](storage),
		animations: ecs.NewView[AnimationEntity](storage),
		timers:     ecs.NewView[TimerEntity](storage),
	}
	g.machine.Init(storage)
	g.machine.start()

	g.scheduler.Register(&ClockSystem{})
	g.scheduler.Register(&InputSystem{})
	g.scheduler.Register(&GravitySystem{})
	g.scheduler.Register(&TimerSystem{})
	g.scheduler.Register(&ParticleSystem{})
	g.scheduler.Register(&AnimationSystem{})

	logger.Printf("new game: %dx%d, effects %v", cfg.Cols, cfg.Rows, cfg.Effects)
	return g, nil
}

// Input queues cmd for the next Update. A later Input before that Update
// replaces it.
func (g *Game) Input(cmd Command) {
	g.inbox.Get().Command = cmd
}

// Update advances the game by dt milliseconds.
func (g *Game) Update(dt float64) {
	g.scheduler.Once(dt)
}

func (g *Game) State() State {
	return g.machine.Counters.Get().State
}

func (g *Game) Counters() Counters {
	return *g.machine.Counters.Get()
}

// Events drains the transitions recorded since the last call.
func (g *Game) Events() []Event {
	return g.machine.Events.Get().drain()
}

// Board returns the live grid. Hosts must treat it as read-only; tests use
// it to lay out positions.
func (g *Game) Board() *board.Grid {
	return g.machine.Grid.Get()
}

// Session returns the live piece session, with the same caveat as Board.
func (g *Game) Session() *piece.Session {
	return g.machine.Session.Get()
}

// PendingTimers counts scheduled transitions that have not fired yet.
func (g *Game) PendingTimers() int {
	n := 0
	for range g.timers.Iter() {
		n++
	}
	return n
}

func (g *Game) Snapshot() Snapshot {
	session := g.machine.Session.Get()
	s := Snapshot{
		Counters: *g.machine.Counters.Get(),
		Cells:    g.machine.Grid.Get().Snapshot(),
		Active:   session.Active.Clone(),
		Next:     session.Next.Clone(),
	}
	for p := range g.particles.Values() {
		s.Particles = append(s.Particles, *p.Particle)
	}
	for a := range g.animations.Values() {
		s.Animations = append(s.Animations, *a.Animation)
	}
	return s
}

// Stats reports per-system timings.
func (g *Game) Stats() *ecs.SchedulerStats {
	return g.scheduler.GetStats()
}

// StorageStats reports how many effect and timer entities are live.
func (g *Game) StorageStats() *ecs.StorageStats {
	return g.storage.CollectStats()
}
