package ecs

import (
	"errors"
	"fmt"
)

// ErrEntityDead means the entity handle is stale: its id was destroyed
// and either never recycled or recycled into a different generation.
// Add/Remove/Destroy treat this as a silent no-op; GetComponent surfaces
// it as an error.
var ErrEntityDead = errors.New("ecs: entity is dead")

// ErrComponentMissing means GetComponent was asked for a type the
// entity's archetype does not carry.
var ErrComponentMissing = errors.New("ecs: component not present on entity")

// ErrChunkFull is an internal consistency error: an archetype attempted
// to add a row to a chunk that was already at ChunkCapacity instead of
// allocating a new one. It should never surface to a caller.
var ErrChunkFull = errors.New("ecs: chunk is at capacity")

// ValidationFailure reports that a component type's layout cannot be
// copied by raw bytes (it contains a pointer, slice, map, chan, func,
// interface, or string somewhere in its fields). Raised by Register/RegisterOneFrame
// as a panic, since registering an invalid component type is a
// programmer error caught once at startup, not a recoverable runtime
// condition.
type ValidationFailure struct {
	Type   string
	Reason string
}

func (v ValidationFailure) Error() string {
	return fmt.Sprintf("ecs: component type %s failed validation: %s", v.Type, v.Reason)
}

// Snapshot restore errors.

// ErrBadMagic means the snapshot's header magic number doesn't match,
// i.e. the bytes aren't a snapshot this codec produced.
var ErrBadMagic = errors.New("ecs: snapshot has invalid magic number")

// ErrUnsupportedVersion means the snapshot's format version is newer (or
// otherwise incompatible) than this codec understands.
var ErrUnsupportedVersion = errors.New("ecs: snapshot format version is not supported")

// ErrTruncated means the snapshot's byte stream ended before the header
// promised it would.
var ErrTruncated = errors.New("ecs: snapshot data is truncated")

// ErrChecksumMismatch means the snapshot decoded cleanly but its
// recomputed checksum disagrees with the one stored in the header,
// i.e. the metadata was corrupted or edited after Save produced it.
var ErrChecksumMismatch = errors.New("ecs: snapshot checksum does not match header")

// UnknownComponent means the snapshot names a component type, by
// registered name, that the restoring World's registry does not know.
// Restore aborts before mutating the world when this occurs.
type UnknownComponent struct {
	Name string
}

func (u UnknownComponent) Error() string {
	return fmt.Sprintf("ecs: snapshot references unregistered component type %q", u.Name)
}
