package ecs

import "unsafe"

// ChunkCapacity is the fixed number of rows every chunk holds. Archetypes
// never grow a chunk past this; they append another chunk instead.
const ChunkCapacity = 512

type column struct {
	typeID   TypeID
	elemSize uintptr
	data     []byte // len == ChunkCapacity*elemSize, zero-initialized
}

func newColumn(meta typeMeta) column {
	return column{
		typeID:   meta.id,
		elemSize: meta.size,
		data:     make([]byte, ChunkCapacity*meta.size),
	}
}

func (c *column) slot(row int) []byte {
	off := uintptr(row) * c.elemSize
	return c.data[off : off+c.elemSize]
}

// Chunk is a fixed-capacity struct-of-arrays block: one byte column per
// component type in its owning archetype, plus the entity handle for
// each occupied row. Deletion is swap-remove: the last occupied row is
// moved into the hole, so rows outside the tail never shift.
type Chunk struct {
	entities [ChunkCapacity]EntityID
	columns  []column
	colIndex map[TypeID]int
	count    int
}

func newChunk(metas []typeMeta) *Chunk {
	ch := &Chunk{
		columns:  make([]column, len(metas)),
		colIndex: make(map[TypeID]int, len(metas)),
	}
	for i, m := range metas {
		ch.columns[i] = newColumn(m)
		ch.colIndex[m.id] = i
	}
	return ch
}

// Count returns the number of occupied rows.
func (c *Chunk) Count() int { return c.count }

// Capacity returns ChunkCapacity.
func (c *Chunk) Capacity() int { return ChunkCapacity }

func (c *Chunk) full() bool { return c.count >= ChunkCapacity }

// Entity returns the handle occupying row.
func (c *Chunk) Entity(row int) EntityID { return c.entities[row] }

func (c *Chunk) addEntity(e EntityID) int {
	row := c.count
	c.entities[row] = e
	c.count++
	return row
}

// swapRemove removes row, moving the last occupied row into its place if
// row wasn't already last. It returns the entity that moved (the zero
// EntityID if none did, i.e. row was last).
func (c *Chunk) swapRemove(row int) EntityID {
	last := c.count - 1
	var moved EntityID
	if row != last {
		moved = c.entities[last]
		c.entities[row] = moved
		for i := range c.columns {
			col := &c.columns[i]
			copy(col.slot(row), col.slot(last))
		}
	}
	c.entities[last] = EntityID{}
	c.count--
	return moved
}

// Column returns a zero-copy typed view over component type id's column,
// one element per occupied row. Returns nil if the chunk has no column
// for id. The returned slice aliases chunk storage and is invalidated by
// any subsequent structural mutation of this chunk.
func Column[T any](ch *Chunk, id TypeID) []T {
	idx, ok := ch.colIndex[id]
	if !ok {
		return nil
	}
	col := &ch.columns[idx]
	if ch.count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&col.data[0])), ch.count)
}

func columnAt[T any](ch *Chunk, id TypeID, row int) *T {
	idx, ok := ch.colIndex[id]
	if !ok {
		return nil
	}
	col := &ch.columns[idx]
	return (*T)(unsafe.Pointer(&col.data[uintptr(row)*col.elemSize]))
}

func setColumnAt[T any](ch *Chunk, id TypeID, row int, value T) {
	idx := ch.colIndex[id]
	col := &ch.columns[idx]
	*(*T)(unsafe.Pointer(&col.data[uintptr(row)*col.elemSize])) = value
}
