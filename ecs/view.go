package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View matches entities by the component pointers declared in T.
// T must be a struct whose fields are pointers to component types; embedded
// fields are required, named fields tagged `ecs:"optional"` may be nil.
// A field of type EntityId (usually embedded) receives the entity's ID.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

var entityIdType = reflect.TypeFor[EntityId]()

// NewView builds a view over storage. Panics if T is not a valid view struct.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type == entityIdType {
			v.idOffset = field.Offset
			v.hasId = true
			continue
		}
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, optional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}
	return v
}

func (v *View[T]) matchesArchetype(a *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !a.HasComponent(t) {
			return false
		}
	}
	return true
}

func (v *View[T]) columns(a *Archetype) []int {
	cols := make([]int, len(v.types))
	for i, t := range v.types {
		cols[i] = a.column(t)
	}
	return cols
}

// populate fills the struct at base with pointers into slot index of a.
func (v *View[T]) populate(base unsafe.Pointer, a *Archetype, index int, cols []int) bool {
	for i, col := range cols {
		field := unsafe.Add(base, v.fieldOffset[i])

		var comp any
		if col >= 0 {
			comp = a.stores[col].Get(index)
		}
		if comp == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(field) = nil
			continue
		}
		*(*unsafe.Pointer)(field) = (*iface)(unsafe.Pointer(&comp)).data
	}
	if v.hasId {
		*(*EntityId)(unsafe.Add(base, v.idOffset)) = NewEntityId(a.id, uint32(index))
	}
	return true
}

// Get returns the populated view struct for id, or nil if a required component is missing.
func (v *View[T]) Get(id EntityId) *T {
	a := v.storage.archetype(id.ArchetypeId())
	if a == nil {
		return nil
	}
	var result T
	if !v.populate(unsafe.Pointer(&result), a, int(id.Index()), v.columns(a)) {
		return nil
	}
	return &result
}

func (v *View[T]) iterArchetype(a *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(a.stores) == 0 {
			return
		}
		cols := v.columns(a)
		var result T
		for index := range a.stores[0].Iter() {
			if !v.populate(unsafe.Pointer(&result), a, index, cols) {
				continue
			}
			if !yield(NewEntityId(a.id, uint32(index)), result) {
				return
			}
		}
	}
}

// Iter yields every matching entity, archetypes in creation order and
// entities in slot order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.order {
			if !v.matchesArchetype(a) {
				continue
			}
			for id, item := range v.iterArchetype(a) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values yields only the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}
