package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/ecs"
	"github.com/plus3/blockfall/game"
)

func record(ds ...time.Duration) Stats {
	rng := rand.New(rand.NewPCG(1, 2))
	var s Stats
	for _, d := range ds {
		s.Record(rng, d)
	}
	return s
}

func TestStatsFinalize(t *testing.T) {
	s := record(3, 1, 2, 10)
	s.Finalize()
	assert.Equal(t, time.Duration(1), s.Min)
	assert.Equal(t, time.Duration(10), s.Max)
	assert.Equal(t, time.Duration(4), s.Avg)
	assert.Equal(t, time.Duration(10), s.P99)

	var empty Stats
	assert.NotPanics(t, empty.Finalize)
}

func TestStatsBounded(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var s Stats
	for i := range 3 * maxSamples {
		s.Record(rng, time.Duration(i+1))
	}
	assert.Len(t, s.Samples, maxSamples)
	assert.Equal(t, int64(3*maxSamples), s.Count)
	assert.Equal(t, time.Duration(1), s.Min)
	assert.Equal(t, time.Duration(3*maxSamples), s.Max)

	other := s
	other.Samples = slices.Clone(s.Samples)
	s.Merge(other)
	assert.Len(t, s.Samples, maxSamples)
	assert.Equal(t, int64(6*maxSamples), s.Count)

	s.Finalize()
	assert.Equal(t, s.Total/time.Duration(s.Count), s.Avg)
	assert.LessOrEqual(t, s.P99, s.Max)
}

func TestSoak(t *testing.T) {
	for _, effects := range []bool{false, true} {
		cfg := game.DefaultConfig()
		cfg.Effects = effects

		r, err := soak(context.Background(), 0, cfg, 0.5, 20000)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), r.Frames)
		assert.Equal(t, int64(20000), r.UpdateTime.Count)
		assert.Len(t, r.UpdateTime.Samples, maxSamples)
		assert.Len(t, r.Systems, 6)
		if effects {
			assert.Positive(t, r.PeakEntities)
		} else {
			assert.Positive(t, r.Games, "random play tops out within 20000 frames")
		}
	}
}

func TestSoakStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := soak(ctx, 1, game.DefaultConfig(), 0.5, 0)
	require.NoError(t, err)
	assert.Zero(t, r.Frames)
}

func TestCheck(t *testing.T) {
	cfg := game.DefaultConfig()
	ok := game.Counters{Level: 2, Lines: 12, DropInterval: 950}
	assert.NoError(t, check(cfg, ok, ok))

	bad := ok
	bad.Level = 3
	assert.Error(t, check(cfg, ok, bad))

	bad = ok
	bad.DropInterval = 1000
	assert.Error(t, check(cfg, ok, bad))

	bad = ok
	bad.Score = -1
	assert.Error(t, check(cfg, ok, bad))
}

func TestReport(t *testing.T) {
	r := &Report{Duration: time.Second, Workers: 2}
	r.Add(
		&Result{Games: 2, Frames: 10, Lines: 3, BestScore: 300, MaxLevel: 1,
			UpdateTime: record(1, 2),
			Systems:    []ecs.SystemStats{{Name: "InputSystem", ExecutionCount: 10, TotalDuration: 100, MaxDuration: 20, MinDuration: 5}}},
		nil,
		&Result{Games: 1, Frames: 5, Lines: 12, BestScore: 1200, MaxLevel: 2,
			UpdateTime: record(3),
			Systems:    []ecs.SystemStats{{Name: "InputSystem", ExecutionCount: 5, TotalDuration: 50, MaxDuration: 30, MinDuration: 2}}},
	)

	assert.Equal(t, 3, r.Games)
	assert.Equal(t, int64(15), r.Frames)
	assert.Equal(t, 15, r.Lines)
	assert.Equal(t, 1200, r.BestScore)
	assert.Equal(t, 2, r.MaxLevel)
	require.Len(t, r.Systems, 1)
	assert.Equal(t, int64(15), r.Systems[0].ExecutionCount)
	assert.Equal(t, time.Duration(10), r.Systems[0].AvgDuration)
	assert.Equal(t, time.Duration(2), r.Systems[0].MinDuration)
	assert.Equal(t, time.Duration(3), r.UpdateTime.Max)

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	assert.Contains(t, buf.String(), "**Games Finished:** 3")
	assert.Contains(t, buf.String(), "**InputSystem:** 15 runs")
}
