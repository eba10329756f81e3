package ecs

import (
	"reflect"
	"slices"
	"sort"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity that has exactly one particular set of
// component types. Columns advance in lockstep, so a slot index addresses
// the same entity in every column.
type Archetype struct {
	id     uint32
	types  []reflect.Type
	stores []componentStore
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:     id,
		types:  types,
		stores: make([]componentStore, len(types)),
	}
	for i, typ := range types {
		factory := registry.factory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.stores[i] = factory()
	}
	return a
}

// spawn appends components (already sorted to match a.types) and returns the slot.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for i, comp := range components {
		slot = a.stores[i].Append(comp)
	}
	return uint32(slot)
}

func (a *Archetype) column(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// GetComponent returns a pointer to the component in the given slot, or nil.
func (a *Archetype) GetComponent(index uint32, compType reflect.Type) any {
	col := a.column(compType)
	if col < 0 {
		return nil
	}
	return a.stores[col].Get(int(index))
}

func (a *Archetype) delete(index uint32) {
	for _, store := range a.stores {
		store.Delete(int(index))
	}
}

// HasComponent reports whether this archetype carries compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.column(compType) >= 0
}

// ID returns the archetype's hash identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of this archetype.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.stores) == 0 {
		return 0
	}
	return a.stores[0].Len()
}

// Iter yields the IDs of all live entities in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.stores) == 0 {
			return
		}
		for index := range a.stores[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}

func sortComponents(components []any) ([]any, []reflect.Type) {
	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		types[i] = componentType(comp)
	}
	order := make([]int, len(components))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return types[order[i]].String() < types[order[j]].String()
	})

	sortedComps := make([]any, len(components))
	sortedTypes := make([]reflect.Type, len(components))
	for i, idx := range order {
		sortedComps[i] = components[idx]
		sortedTypes[i] = types[idx]
	}
	return sortedComps, sortedTypes
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return t
}
