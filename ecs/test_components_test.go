package ecs_test

import "github.com/plus3/blockfall/ecs"

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Life struct {
	Remaining float64
}

type Score int32

type Board struct {
	Cells []int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Life](registry)
	ecs.RegisterComponent[Score](registry)
	return registry
}
