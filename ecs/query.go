package ecs

import "iter"

// Query is a View whose results are captured once per frame. The Scheduler
// refreshes every Query field of a system right before that system runs, so
// entities spawned through Commands show up on the following frame.
type Query[T any] struct {
	view     *View[T]
	storage  *Storage
	matched  []*Archetype
	seen     int
	ids      []EntityId
	items    []T
	captured bool
}

// NewQuery creates a Query outside of a Scheduler.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the Query to storage and drops any cached state.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.matched = nil
	q.seen = -1
	q.captured = false
}

// Execute captures the current matching entities.
func (q *Query[T]) Execute() {
	if n := len(q.storage.order); n != q.seen {
		q.matched = q.matched[:0]
		for _, a := range q.storage.order {
			if q.view.matchesArchetype(a) {
				q.matched = append(q.matched, a)
			}
		}
		q.seen = n
	}

	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for _, a := range q.matched {
		for id, item := range q.view.iterArchetype(a) {
			q.ids = append(q.ids, id)
			q.items = append(q.items, item)
		}
	}
	q.captured = true
}

// Len returns the number of captured entities.
func (q *Query[T]) Len() int {
	return len(q.ids)
}

// Iter yields the captured entities. Panics if Execute has never run.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.captured {
		panic("Query.Iter() called before Query.Execute()")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Values yields the captured view structs. Panics if Execute has never run.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.captured {
		panic("Query.Values() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for _, item := range q.items {
			if !yield(item) {
				return
			}
		}
	}
}
