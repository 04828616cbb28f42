package ecs

import "unsafe"

type blueprintEntry struct {
	typeID TypeID
	bytes  []byte
}

// Blueprint is a named, reusable list of component values that batches
// entity creation — a thin wrapper over repeated World.AddComponent
// calls, not a distinct storage mechanism.
type Blueprint struct {
	Name    string
	entries []blueprintEntry
}

// NewBlueprint returns an empty blueprint.
func NewBlueprint(name string) *Blueprint {
	return &Blueprint{Name: name}
}

// BlueprintSet records T's value for every entity this blueprint later
// instantiates. Calling it again for the same T overwrites the stored
// value. Returns bp for chaining.
func BlueprintSet[T any](bp *Blueprint, w *World, value T) *Blueprint {
	id := requireTypeID[T](w.registry)
	meta := w.registry.Meta(id)
	data := make([]byte, meta.size)
	*(*T)(unsafe.Pointer(&data[0])) = value

	for i, e := range bp.entries {
		if e.typeID == id {
			bp.entries[i].bytes = data
			return bp
		}
	}
	bp.entries = append(bp.entries, blueprintEntry{typeID: id, bytes: data})
	return bp
}

// Instantiate creates one entity carrying every value recorded in bp.
func (bp *Blueprint) Instantiate(w *World) EntityID {
	e := w.CreateEntity()
	for _, entry := range bp.entries {
		w.addRawComponent(e, entry.typeID, entry.bytes)
	}
	return e
}

// InstantiateMany creates n entities from bp, returning their handles.
func (bp *Blueprint) InstantiateMany(w *World, n int) []EntityID {
	out := make([]EntityID, n)
	for i := range out {
		out[i] = bp.Instantiate(w)
	}
	return out
}
