package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/blockfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 3, Y: 4}, &Velocity{DX: 1}, Score(7))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(3), pos.X)
	assert.Equal(t, float32(4), pos.Y)

	vel := ecs.ReadComponent[Velocity](storage, id)
	require.NotNil(t, vel)
	assert.Equal(t, float32(1), vel.DX)

	assert.Equal(t, Score(7), *ecs.ReadComponent[Score](storage, id))
	assert.Nil(t, ecs.ReadComponent[Life](storage, id))
}

func TestComponentOrderDoesNotMatter(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.Len(t, storage.Archetypes(), 1)

	arch := storage.GetArchetypeByTypes([]reflect.Type{reflect.TypeFor[Velocity](), reflect.TypeFor[Position]()})
	require.NotNil(t, arch)
	assert.Equal(t, 2, arch.Len())
}

func TestDeleteRecyclesSlots(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})
	storage.Delete(first)

	assert.Nil(t, storage.GetComponent(first, reflect.TypeFor[Position]()))
	assert.Equal(t, 1, storage.Count())

	reused := storage.Spawn(Position{X: 3})
	assert.Equal(t, first.Index(), reused.Index())
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, reused).X)

	storage.Delete(ecs.NewEntityId(12345, 0))
	assert.Equal(t, 2, storage.Count())
}

func TestPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Life{Remaining: 1})
	life := ecs.ReadComponent[Life](storage, id)

	for i := 0; i < 500; i++ {
		storage.Spawn(Life{Remaining: float64(i)})
	}

	life.Remaining = 0.5
	assert.Equal(t, 0.5, ecs.ReadComponent[Life](storage, id).Remaining)
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
	assert.Panics(t, func() { storage.Spawn(Board{}) }, "unregistered component")
}

func TestSingleton(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	board := ecs.NewSingleton(storage, Board{Cells: []int{1, 2, 3}})
	require.True(t, board.Exists())
	board.Get().Cells[0] = 9

	again := ecs.NewSingleton[Board](storage)
	assert.Equal(t, []int{9, 2, 3}, again.Get().Cells, "second accessor must see the same value")

	var missing ecs.Singleton[Score]
	missing.Init(storage)
	assert.False(t, missing.Exists())
	assert.Nil(t, missing.Get())

	storage.AddSingleton(Score(4))
	assert.Equal(t, Score(4), *missing.Get())
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Life{})
	ecs.NewSingleton(storage, Board{})

	stats := storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Contains(t, stats.ArchetypeBreakdown[0].Components, "ecs_test.Position")
}
