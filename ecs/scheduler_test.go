package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/blockfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for _, item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type DecaySystem struct {
	Particles ecs.Query[struct {
		ecs.EntityId
		*Life
	}]
	Total ecs.Singleton[Score]
}

func (s *DecaySystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range s.Particles.Iter() {
		item.Life.Remaining -= frame.DeltaTime
		if item.Life.Remaining <= 0 {
			frame.Commands.Delete(item.EntityId)
			*s.Total.Get() += 1
		}
	}
}

type SpawnerSystem struct {
	Spawned int
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	s.Spawned++
	frame.Commands.Spawn(Position{X: float32(s.Spawned)}, Velocity{DX: 1})
}

// CountingSystem spawns an entity and defers a count of the storage.
type CountingSystem struct {
	storage *ecs.Storage
	Seen    []int
}

func (s *CountingSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Life{Remaining: 1})
	frame.Commands.Defer(func() { s.Seen = append(s.Seen, s.storage.Count()) })
}

func TestSchedulerOnce(t *testing.T) {
	t.Run("systems run in order with wired queries", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		storage.Spawn(Position{}, Velocity{DX: 10, DY: 20})

		scheduler := ecs.NewScheduler(storage)
		movement := &MovementSystem{}
		scheduler.Register(movement)

		scheduler.Once(0.5)
		scheduler.Once(0.5)

		assert.Equal(t, 2, movement.ExecuteCount)
		for _, item := range movement.Entities.Iter() {
			assert.Equal(t, float32(10), item.Position.X)
			assert.Equal(t, float32(20), item.Position.Y)
		}
	})

	t.Run("commands apply after the frame", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		spawner := &SpawnerSystem{}
		movement := &MovementSystem{}
		scheduler.Register(spawner)
		scheduler.Register(movement)

		scheduler.Once(1)
		assert.Equal(t, 0, movement.Entities.Len(), "spawned entity must not be visible in the same frame")
		assert.Equal(t, 1, storage.Count())

		scheduler.Once(1)
		assert.Equal(t, 1, movement.Entities.Len())
		assert.Equal(t, 2, storage.Count())
	})

	t.Run("defers run after spawns", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		counting := &CountingSystem{storage: storage}
		scheduler.Register(counting)

		scheduler.Once(1)
		scheduler.Once(1)
		assert.Equal(t, []int{1, 2}, counting.Seen)
	})

	t.Run("singletons and deletes", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		ecs.NewSingleton(storage, Score(0))
		storage.Spawn(Life{Remaining: 1})
		storage.Spawn(Life{Remaining: 3})

		scheduler := ecs.NewScheduler(storage)
		decay := &DecaySystem{}
		scheduler.Register(decay)

		scheduler.Once(1)
		assert.Equal(t, Score(1), *decay.Total.Get())
		assert.Equal(t, 1, storage.Count())

		scheduler.Once(1)
		scheduler.Once(1)
		assert.Equal(t, Score(2), *decay.Total.Get())
		assert.Equal(t, 0, storage.Count())
	})

	t.Run("stats", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&MovementSystem{})
		scheduler.Register(&SpawnerSystem{})

		for range 3 {
			scheduler.Once(1)
		}

		stats := scheduler.GetStats()
		require.Len(t, stats.Systems, 2)
		assert.Equal(t, 2, stats.SystemCount)
		assert.Equal(t, int64(6), stats.TotalExecutions)
		assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
		assert.Equal(t, int64(3), stats.Systems[1].ExecutionCount)
		assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
	})
}

func TestSchedulerRun(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	movement := &MovementSystem{}
	scheduler.Register(movement)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
	assert.Greater(t, movement.ExecuteCount, 0)
}

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct {
		*Position
		Vel *Velocity `ecs:"optional"`
	}](storage)

	assert.Panics(t, func() { query.Iter() })

	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 5})
	storage.Spawn(Velocity{DX: 9})

	query.Execute()
	assert.Equal(t, 2, query.Len())

	withVelocity := 0
	for item := range query.Values() {
		if item.Vel != nil {
			withVelocity++
			assert.Equal(t, float32(2), item.Position.X)
		}
	}
	assert.Equal(t, 1, withVelocity)

	storage.Spawn(Position{X: 3})
	assert.Equal(t, 2, query.Len(), "capture is stale until Execute")
	query.Execute()
	assert.Equal(t, 3, query.Len())
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 4}, Life{Remaining: 2})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
		*Life
	}](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, id, item.EntityId)
	assert.Equal(t, float32(4), item.Position.X)

	missing := ecs.NewView[struct{ *Velocity }](storage)
	assert.Nil(t, missing.Get(id))

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ P Position }](storage) })
}
