package ecs

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// TypeID is a dense, process-local identifier assigned to a component (or
// event payload) type the first time it is registered. Archetypes and
// signatures are keyed off TypeID, never off reflect.Type or a name, so
// that migration and iteration never pay for dynamic dispatch.
type TypeID uint16

// MaxComponentTypes bounds how many distinct component/event-payload
// types a single registry can hold; it matches Signature's bit width.
const MaxComponentTypes = sigWords * 64

type typeMeta struct {
	id        TypeID
	name      string
	size      uintptr
	align     uintptr
	oneFrame  bool
	copyBytes func(dst, src []byte)
	zeroBytes func(dst []byte)
}

// ComponentRegistry assigns and looks up the TypeID and byte-level vtable
// for every component and event-payload type a World knows about.
// Registration happens once per type, at startup; lookups by TypeID are
// O(1) slice indexing. The reflect.Type map is read whenever a typed entry
// point (AddComponent, GetComponent, HasComponent, ComponentID, Commands)
// resolves T to its TypeID; the column copies done during migration and
// chunk iteration work off TypeID alone and never consult it. Snapshot
// restore resolves types through the separate by-name map.
type ComponentRegistry struct {
	mu     sync.Mutex
	byType map[reflect.Type]TypeID
	byName map[string]TypeID
	metas  []typeMeta
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[reflect.Type]TypeID),
		byName: make(map[string]TypeID),
	}
}

// Register assigns (or returns the existing) TypeID for T. T must be a
// fixed-size record: no pointers, slices, maps, channels, functions,
// interfaces, or strings anywhere in its layout, since the registry's vtable copies
// components by raw bytes. A violation panics with a ValidationFailure —
// this is a programmer error, caught once at registration time, not a
// runtime condition callers are expected to recover from.
func Register[T any](r *ComponentRegistry) TypeID {
	return registerType[T](r, false)
}

// RegisterOneFrame is like Register but marks the type one-frame: every
// component column of this type, and the World's EventChannel[T] returned
// by Events, is bulk-cleared by World.ClearOneFrame. A channel made
// directly with NewEventChannel is not tracked by any World and is not
// cleared.
func RegisterOneFrame[T any](r *ComponentRegistry) TypeID {
	return registerType[T](r, true)
}

func registerType[T any](r *ComponentRegistry, oneFrame bool) TypeID {
	rt := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byType[rt]; ok {
		return id
	}

	if err := validateFixedSize(rt); err != nil {
		panic(ValidationFailure{Type: rt.String(), Reason: err.Error()})
	}

	var zero T
	id := TypeID(len(r.metas))
	if int(id) >= MaxComponentTypes {
		panic(fmt.Sprintf("ecs: component type capacity (%d) exceeded registering %s", MaxComponentTypes, rt))
	}

	meta := typeMeta{
		id:       id,
		name:     rt.String(),
		size:     unsafe.Sizeof(zero),
		align:    unsafe.Alignof(zero),
		oneFrame: oneFrame,
		copyBytes: func(dst, src []byte) {
			*(*T)(unsafe.Pointer(&dst[0])) = *(*T)(unsafe.Pointer(&src[0]))
		},
		zeroBytes: func(dst []byte) {
			var z T
			*(*T)(unsafe.Pointer(&dst[0])) = z
		},
	}

	r.metas = append(r.metas, meta)
	r.byType[rt] = id
	r.byName[meta.name] = id
	return id
}

// validateFixedSize rejects component types that cannot be copied by raw
// bytes: anything holding a pointer, slice, map, channel, function,
// interface, or string, recursively through structs and arrays.
func validateFixedSize(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer, reflect.String:
		return fmt.Errorf("kind %s is not a fixed-size record field", t.Kind())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := validateFixedSize(t.Field(i).Type); err != nil {
				return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
			}
		}
	case reflect.Array:
		return validateFixedSize(t.Elem())
	}
	return nil
}

// Meta returns the vtable entry for id. Panics if id is out of range,
// which can only happen by misusing a TypeID from a different registry.
func (r *ComponentRegistry) Meta(id TypeID) typeMeta {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metas[id]
}

// IsOneFrame reports whether id was registered via RegisterOneFrame.
func (r *ComponentRegistry) IsOneFrame(id TypeID) bool {
	return r.Meta(id).oneFrame
}

// TypeIDByName resolves a type previously registered under this name
// (as reported by reflect.Type.String()). Used by snapshot restore to
// remap a saved TypeID, which may differ run-to-run, onto the current
// process's TypeID for the same named type.
func (r *ComponentRegistry) TypeIDByName(name string) (TypeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[name]
	return id, ok
}

func (r *ComponentRegistry) byTypeLocked(rt reflect.Type) (TypeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byType[rt]
	return id, ok
}

// TypeIDOfValue resolves the TypeID of v's dynamic type, for code paths
// that only have an any-typed component value (Commands).
func (r *ComponentRegistry) TypeIDOfValue(v any) (TypeID, bool) {
	rt := reflect.TypeOf(v)
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byType[rt]
	return id, ok
}

// Count returns the number of distinct registered types.
func (r *ComponentRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.metas)
}

func typeIDFor[T any](r *ComponentRegistry) (TypeID, bool) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byType[rt]
	return id, ok
}

func requireTypeID[T any](r *ComponentRegistry) TypeID {
	id, ok := typeIDFor[T](r)
	if !ok {
		var zero T
		panic(fmt.Sprintf("ecs: component type %T is not registered", zero))
	}
	return id
}

// ComponentID returns the TypeID of T as registered against w, panicking
// if T was never registered. It is the building block callers use to
// assemble Query filters with With/Without.
func ComponentID[T any](w *World) TypeID {
	return requireTypeID[T](w.registry)
}
