package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/game"
)

// frameTime is the simulated frame length in ms.
const frameTime = 1000.0 / 60

// Result is what one worker observed.
type Result struct {
	Worker    int
	Games     int
	Frames    int64
	Lines     int
	BestScore int
	MaxLevel  int
	// PeakEntities is the most effect and timer entities alive at once.
	PeakEntities int

	UpdateTime Stats
	Systems    []ecs.SystemStats
}

// commands weights player behaviour: mostly idle, some steering, rare drops.
var commands = []game.Command{
	game.MoveLeft, game.MoveLeft, game.MoveRight, game.MoveRight,
	game.Rotate, game.Rotate, game.SoftDrop, game.SoftDrop, game.SoftDrop,
	game.HardDrop,
}

// soak plays games with random input until ctx is done or maxFrames frames
// have run (0 means no limit), checking counters after every frame.
func soak(ctx context.Context, worker int, cfg game.Config, inputRate float64, maxFrames int64) (*Result, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(worker)))
	cfg.Rand = rng

	g, err := game.New(cfg)
	if err != nil {
		return nil, err
	}

	r := &Result{Worker: worker}
	for maxFrames == 0 || r.Frames < maxFrames {
		if ctx.Err() != nil {
			break
		}

		if g.State() == game.GameOver {
			r.Games++
			g.Input(game.Restart)
		} else if rng.Float64() < inputRate {
			g.Input(commands[rng.IntN(len(commands))])
		}

		start := time.Now()
		before := g.Counters()
		g.Update(frameTime)
		r.UpdateTime.Record(rng, time.Since(start))
		r.Frames++

		c := g.Counters()
		if err := check(cfg, before, c); err != nil {
			return r, fmt.Errorf("worker %d frame %d: %w", worker, r.Frames, err)
		}
		r.BestScore = max(r.BestScore, c.Score)
		r.MaxLevel = max(r.MaxLevel, c.Level)
		if c.Lines > before.Lines {
			r.Lines += c.Lines - before.Lines
		}
		r.PeakEntities = max(r.PeakEntities, g.StorageStats().TotalEntityCount)
		g.Events()
	}

	r.UpdateTime.Finalize()
	r.Systems = g.Stats().Systems
	return r, nil
}

// check verifies the counter relationships that must hold after any frame.
func check(cfg game.Config, before, c game.Counters) error {
	switch {
	case c.Score < 0:
		return fmt.Errorf("negative score %d", c.Score)
	case c.State != game.Running && c.State != game.GameOver && c.State != game.Paused:
		return fmt.Errorf("unknown state %v", c.State)
	case c.Level != c.Lines/cfg.LinesPerLevel+1:
		return fmt.Errorf("level %d does not match %d lines", c.Level, c.Lines)
	case c.DropInterval != cfg.DropInterval(c.Level):
		return fmt.Errorf("drop interval %v at level %d", c.DropInterval, c.Level)
	case before.State != game.GameOver && c.Lines < before.Lines:
		return fmt.Errorf("lines went from %d to %d", before.Lines, c.Lines)
	}
	return nil
}
