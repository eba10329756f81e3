package ecs

import (
	"iter"
	"reflect"
)

// componentStore is a type-erased column of one component type.
type componentStore interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to the column factories used when a
// new archetype is created. Every Storage owns exactly one registry.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStore
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStore),
	}
}

// RegisterComponent makes T usable as an entity component.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() componentStore {
		return &column[T]{}
	}
}

func (r *ComponentRegistry) factory(t reflect.Type) func() componentStore {
	return r.factories[t]
}

const chunkSize = 64

// column stores values of T in fixed-size chunks so pointers handed out by
// Get stay valid while the column grows. Deleted slots are recycled LIFO.
type column[T any] struct {
	chunks []*[chunkSize]T
	live   []*[chunkSize]bool
	free   []int
	next   int
	count  int
}

func (c *column[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
		if index/chunkSize >= len(c.chunks) {
			c.chunks = append(c.chunks, new([chunkSize]T))
			c.live = append(c.live, new([chunkSize]bool))
		}
	}

	c.chunks[index/chunkSize][index%chunkSize] = value
	c.live[index/chunkSize][index%chunkSize] = true
	c.count++
	return index
}

func (c *column[T]) has(index int) bool {
	return index >= 0 && index < c.next && c.live[index/chunkSize][index%chunkSize]
}

func (c *column[T]) Get(index int) any {
	if !c.has(index) {
		return nil
	}
	return &c.chunks[index/chunkSize][index%chunkSize]
}

func (c *column[T]) Delete(index int) {
	if !c.has(index) {
		return
	}
	var zero T
	c.chunks[index/chunkSize][index%chunkSize] = zero
	c.live[index/chunkSize][index%chunkSize] = false
	c.free = append(c.free, index)
	c.count--
}

func (c *column[T]) Len() int {
	return c.count
}

func (c *column[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if c.live[i/chunkSize][i%chunkSize] && !yield(i) {
				return
			}
		}
	}
}
