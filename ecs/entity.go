package ecs

import "fmt"

// EntityID is a stable 64-bit handle naming a row in a World. It pairs a
// dense id with a generation counter so a handle captured before a
// destroy+recycle can never be mistaken for the entity that now occupies
// the same id; the directory is what actually knows where a live entity's
// data lives (see directory.go).
//
// The zero value is NullEntity: id 0 is never allocated.
type EntityID struct {
	id         uint32
	generation uint32
}

// NullEntity is the reserved zero handle.
var NullEntity = EntityID{}

// ID returns the dense entity id (0 for NullEntity).
func (e EntityID) ID() uint32 { return e.id }

// Generation returns the recycling generation of this handle.
func (e EntityID) Generation() uint32 { return e.generation }

// IsNull reports whether e is the reserved null handle.
func (e EntityID) IsNull() bool { return e.id == 0 }

// Packed returns the handle as a single 64-bit value, id in the upper 32
// bits and generation in the lower 32, for wire formats that want one
// comparable scalar.
func (e EntityID) Packed() uint64 {
	return uint64(e.id)<<32 | uint64(e.generation)
}

// EntityFromPacked reconstructs a handle from Packed's output.
func EntityFromPacked(v uint64) EntityID {
	return EntityID{id: uint32(v >> 32), generation: uint32(v)}
}

func (e EntityID) String() string {
	if e.IsNull() {
		return "Entity(null)"
	}
	return fmt.Sprintf("Entity(%d#%d)", e.id, e.generation)
}

// EntityRef is a stable reference to an entity that survives archetype
// migration, held only weakly by its owning World so it never pins an
// entity's memory past the entity's own lifetime. Create one with
// World.CreateEntityRef; resolve it with World.ResolveEntityRef or
// Resolve directly.
type EntityRef struct {
	handle EntityID
	world  *World
}

// Resolve reports whether the referenced entity is still alive and, if
// so, returns its handle. A nil ref, or one that was explicitly
// invalidated, resolves false.
func (r *EntityRef) Resolve() (EntityID, bool) {
	if r == nil || r.world == nil || r.handle.IsNull() {
		return EntityID{}, false
	}
	if !r.world.IsAlive(r.handle) {
		return EntityID{}, false
	}
	return r.handle, true
}
