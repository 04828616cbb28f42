package ecs

import (
	"reflect"
	"unsafe"
	"weak"

	"github.com/kamstrup/intmap"
)

// World is the main ECS storage system: every entity, archetype, chunk,
// query plan, and event channel in one simulation lives under a single
// World. Structural mutation (create/destroy entity, add/remove
// component) is not safe to call concurrently with itself or with
// iteration — callers serialize their own mutation, exactly as the
// Non-goals call for (no transparent multi-threaded mutation baked in).
type World struct {
	registry        *ComponentRegistry
	dir             directory
	archetypesByID  []*Archetype
	archetypesBySig map[Signature]*Archetype
	nextArchetypeID uint32
	plans           map[planKey]*queryPlan
	events          map[TypeID]erasedEventChannel
	singletons      map[TypeID]*singletonSlot
	refs            *intmap.Map[uint64, weak.Pointer[EntityRef]]
}

// NewWorld returns a World backed by registry. The World does not take
// ownership of further registrations: components may keep being
// registered on registry after NewWorld, new archetypes simply pick them
// up the first time an entity needs them.
func NewWorld(registry *ComponentRegistry) *World {
	w := &World{
		registry:        registry,
		dir:             newDirectory(),
		archetypesBySig: make(map[Signature]*Archetype),
		plans:           make(map[planKey]*queryPlan),
		events:          make(map[TypeID]erasedEventChannel),
		singletons:      make(map[TypeID]*singletonSlot),
		refs:            intmap.New[uint64, weak.Pointer[EntityRef]](256),
	}
	w.getOrCreateArchetype(Signature{})
	return w
}

// Registry returns the component type registry backing this World.
func (w *World) Registry() *ComponentRegistry { return w.registry }

func (w *World) getOrCreateArchetype(sig Signature) *Archetype {
	if a, ok := w.archetypesBySig[sig]; ok {
		return a
	}

	buf := getIDBuf()
	ids := sig.AppendIds(buf)
	metas := make([]typeMeta, len(ids))
	for i, id := range ids {
		metas[i] = w.registry.Meta(id)
	}

	id := w.nextArchetypeID
	w.nextArchetypeID++
	a := newArchetype(id, sig, ids, metas)
	putIDBuf(ids)

	w.archetypesByID = append(w.archetypesByID, a)
	w.archetypesBySig[sig] = a
	w.onArchetypeCreated(a)
	return a
}

// CreateEntity spawns a new, componentless entity and returns its
// handle. Use AddComponent to give it component data.
func (w *World) CreateEntity() EntityID {
	id, generation := w.dir.create()
	handle := EntityID{id: id, generation: generation}
	empty := w.archetypesBySig[Signature{}]
	row := empty.addEntity(handle)
	w.dir.setLocation(id, empty.id, row)
	return handle
}

// DestroyEntity removes e and all its component data. A stale or already
// dead handle is a silent no-op.
func (w *World) DestroyEntity(e EntityID) {
	if !w.dir.isAlive(e) {
		return
	}
	archID, row, _ := w.dir.locate(e)
	arch := w.archetypesByID[archID]
	moved, ok := arch.removeEntity(row)
	if ok {
		w.dir.setLocation(moved.id, archID, row)
	}
	w.dir.destroy(e.id)
}

// IsAlive reports whether e names a currently live entity at its exact
// generation.
func (w *World) IsAlive(e EntityID) bool { return w.dir.isAlive(e) }

// EntityCount returns the number of currently live entities.
func (w *World) EntityCount() int {
	n := 0
	for _, a := range w.archetypesByID {
		n += a.EntityCount()
	}
	return n
}

// ArchetypeCount returns the number of distinct archetypes the world has
// ever created (archetypes are never deleted, even once empty).
func (w *World) ArchetypeCount() int { return len(w.archetypesByID) }

// CreateEntityRef returns a stable reference to e, deduplicated so
// repeated calls for the same still-referenced entity return the same
// *EntityRef. Returns nil if e is not currently alive. The ref is held
// weakly by w: once nothing else holds it, it can be collected and a
// later CreateEntityRef for the same entity mints a fresh one.
func (w *World) CreateEntityRef(e EntityID) *EntityRef {
	if !w.IsAlive(e) {
		return nil
	}
	key := e.Packed()
	if wp, ok := w.refs.Get(key); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
		w.refs.Del(key)
	}
	ref := &EntityRef{handle: e, world: w}
	w.refs.Put(key, weak.Make(ref))
	return ref
}

// ResolveEntityRef reports whether ref still names a live entity and, if
// so, returns its handle. Equivalent to calling ref.Resolve directly.
func (w *World) ResolveEntityRef(ref *EntityRef) (EntityID, bool) {
	return ref.Resolve()
}

// InvalidateEntityRef explicitly severs ref from the entity it named.
// Safe to call on an already-invalidated or nil ref (returns false).
func (w *World) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.handle.IsNull() {
		return false
	}
	w.refs.Del(ref.handle.Packed())
	ref.handle = EntityID{}
	ref.world = nil
	return true
}

// migrate moves e from its current archetype to the archetype matching
// newSig, copying every column the two archetypes have in common, and
// returns the new archetype and the entity's new row within it so the
// caller can write the component that triggered the migration.
func (w *World) migrate(e EntityID, newSig Signature) (*Archetype, uint32) {
	archID, row, _ := w.dir.locate(e)
	oldArch := w.archetypesByID[archID]

	newArch := w.getOrCreateArchetype(newSig)
	newRow := newArch.addEntity(e)
	copyIntersectingColumns(oldArch, row, newArch, newRow, w.registry)

	moved, ok := oldArch.removeEntity(row)
	if ok {
		w.dir.setLocation(moved.id, archID, row)
	}
	w.dir.setLocation(e.id, newArch.id, newRow)
	return newArch, newRow
}

// AddComponent attaches value to e, migrating it to the archetype that
// adds T's type if it doesn't already carry one, or overwriting the
// existing value in place if it does (ComponentDuplicate policy: last
// write wins, no error). A dead or stale e is a silent no-op.
func AddComponent[T any](w *World, e EntityID, value T) error {
	if !w.IsAlive(e) {
		return nil
	}
	id := requireTypeID[T](w.registry)
	archID, row, _ := w.dir.locate(e)
	oldArch := w.archetypesByID[archID]

	if oldArch.signature.Has(id) {
		chunkIdx, local := oldArch.rowToChunk(row)
		setColumnAt[T](oldArch.chunks[chunkIdx], id, local, value)
		return nil
	}

	newArch, newRow := w.migrate(e, oldArch.signature.Add(id))
	nChunkIdx, nLocal := newArch.rowToChunk(newRow)
	setColumnAt[T](newArch.chunks[nChunkIdx], id, nLocal, value)
	return nil
}

// SetComponent overwrites e's existing T value, or attaches it if absent
// — an alias for AddComponent kept for call-site clarity when the caller
// knows the component is already present.
func SetComponent[T any](w *World, e EntityID, value T) error {
	return AddComponent[T](w, e, value)
}

// RemoveComponent detaches T from e, migrating it to the archetype
// without T's type. A dead entity, or one that doesn't carry T, is a
// silent no-op.
func RemoveComponent[T any](w *World, e EntityID) error {
	if !w.IsAlive(e) {
		return nil
	}
	id := requireTypeID[T](w.registry)
	archID, row, _ := w.dir.locate(e)
	oldArch := w.archetypesByID[archID]
	if !oldArch.signature.Has(id) {
		return nil
	}
	w.migrate(e, oldArch.signature.Remove(id))
	return nil
}

// GetComponent returns a pointer to e's T value, live over World storage
// (valid until the next structural mutation touching e's archetype).
// Returns ErrEntityDead for a stale handle, ErrComponentMissing if e is
// alive but doesn't carry T.
func GetComponent[T any](w *World, e EntityID) (*T, error) {
	if !w.IsAlive(e) {
		return nil, ErrEntityDead
	}
	id := requireTypeID[T](w.registry)
	archID, row, _ := w.dir.locate(e)
	arch := w.archetypesByID[archID]
	if !arch.signature.Has(id) {
		return nil, ErrComponentMissing
	}
	chunkIdx, local := arch.rowToChunk(row)
	return columnAt[T](arch.chunks[chunkIdx], id, local), nil
}

// HasComponent reports whether e is alive and carries T.
func HasComponent[T any](w *World, e EntityID) bool {
	if !w.IsAlive(e) {
		return false
	}
	id, ok := typeIDFor[T](w.registry)
	if !ok {
		return false
	}
	archID, _, _ := w.dir.locate(e)
	return w.archetypesByID[archID].signature.Has(id)
}

// addRawComponent attaches the component named by id, copying its value
// from raw bytes, using the same migrate-or-overwrite policy as
// AddComponent. Used internally by Blueprint and Commands, which only
// have a TypeID and a byte buffer, not a concrete Go type. A dead or
// stale e is a silent no-op, matching AddComponent[T]'s contract.
func (w *World) addRawComponent(e EntityID, id TypeID, data []byte) {
	if !w.IsAlive(e) {
		return
	}
	archID, row, _ := w.dir.locate(e)
	oldArch := w.archetypesByID[archID]
	meta := w.registry.Meta(id)

	if oldArch.signature.Has(id) {
		chunkIdx, local := oldArch.rowToChunk(row)
		ch := oldArch.chunks[chunkIdx]
		col := &ch.columns[ch.colIndex[id]]
		meta.copyBytes(col.slot(local), data)
		return
	}

	newArch, newRow := w.migrate(e, oldArch.signature.Add(id))
	nChunkIdx, nLocal := newArch.rowToChunk(newRow)
	nch := newArch.chunks[nChunkIdx]
	ncol := &nch.columns[nch.colIndex[id]]
	meta.copyBytes(ncol.slot(nLocal), data)
}

// addComponentValue attaches an any-boxed component value, resolving its
// TypeID by its dynamic type. Used by Commands, which only ever sees
// component values as any. Panics if value's type was never registered.
func (w *World) addComponentValue(e EntityID, value any) {
	if !w.IsAlive(e) {
		return
	}
	id, ok := w.registry.TypeIDOfValue(value)
	if !ok {
		panic("ecs: component value of an unregistered type passed to Commands")
	}
	meta := w.registry.Meta(id)
	rv := reflect.New(reflect.TypeOf(value)).Elem()
	rv.Set(reflect.ValueOf(value))
	data := unsafe.Slice((*byte)(unsafe.Pointer(rv.UnsafeAddr())), meta.size)
	w.addRawComponent(e, id, data)
}

// removeComponentByType detaches the component named by reflect type rt,
// if present. Used by Commands, which only has a reflect.Type captured
// at command-creation time.
func (w *World) removeComponentByType(e EntityID, rt reflect.Type) {
	id, ok := w.registry.byTypeLocked(rt)
	if !ok || !w.IsAlive(e) {
		return
	}
	archID, _, _ := w.dir.locate(e)
	oldArch := w.archetypesByID[archID]
	if !oldArch.signature.Has(id) {
		return
	}
	w.migrate(e, oldArch.signature.Remove(id))
}

// ClearOneFrame zeroes every column, and clears every EventChannel,
// registered one-frame. Call once per frame boundary (typically after
// PostUpdate, before Presentation — see scheduler.go).
func (w *World) ClearOneFrame() {
	for _, a := range w.archetypesByID {
		for _, id := range a.typeIDs {
			if !w.registry.IsOneFrame(id) {
				continue
			}
			for _, ch := range a.chunks {
				if ch.count == 0 {
					continue
				}
				col := &ch.columns[ch.colIndex[id]]
				clear(col.data[:uintptr(ch.count)*col.elemSize])
			}
		}
	}
	for _, ec := range w.events {
		if ec.isOneFrame() {
			ec.clear()
		}
	}
}
