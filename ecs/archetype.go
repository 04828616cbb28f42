package ecs

import "github.com/kamstrup/intmap"

// Archetype owns every entity that shares one exact component signature.
// Its data lives in an ordered list of fixed-capacity Chunks; every chunk
// but possibly the last is always full. Deletion never shifts a non-last
// chunk's rows except by swapping in the tail-most occupied row, so at
// most one chunk ever loses a row per removeEntity call.
type Archetype struct {
	id        uint32
	signature Signature
	typeIDs   []TypeID // ascending order; fixes each chunk's column order
	metas     []typeMeta
	chunks    []*Chunk
	rows      *intmap.Map[uint64, uint32] // packed entity handle -> global row, for O(1) membership probes
}

func newArchetype(id uint32, sig Signature, typeIDs []TypeID, metas []typeMeta) *Archetype {
	return &Archetype{
		id:        id,
		signature: sig,
		typeIDs:   append([]TypeID(nil), typeIDs...),
		metas:     append([]typeMeta(nil), metas...),
		rows:      intmap.New[uint64, uint32](64),
	}
}

// ID returns the archetype's stable, append-only identifier.
func (a *Archetype) ID() uint32 { return a.id }

// Signature returns the component-type bitset this archetype holds.
func (a *Archetype) Signature() Signature { return a.signature }

// TypeIDs returns the archetype's component types in column order.
func (a *Archetype) TypeIDs() []TypeID { return a.typeIDs }

// Chunks returns the archetype's chunk list. removeEntity drops a tail
// chunk as soon as it is drained, so every chunk in the list holds at
// least one row; Query.Chunks still skips any chunk with Count() == 0.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// EntityCount returns the total number of live entities across all
// chunks.
func (a *Archetype) EntityCount() int {
	n := 0
	for _, ch := range a.chunks {
		n += ch.count
	}
	return n
}

func (a *Archetype) globalRow(chunkIdx, local int) uint32 {
	return uint32(chunkIdx)*ChunkCapacity + uint32(local)
}

func (a *Archetype) rowToChunk(row uint32) (chunkIdx, local int) {
	return int(row / ChunkCapacity), int(row % ChunkCapacity)
}

// addEntity places e into the first non-full chunk, allocating a new
// chunk if every existing one is full, and returns its new global row.
func (a *Archetype) addEntity(e EntityID) uint32 {
	for i, ch := range a.chunks {
		if !ch.full() {
			local := ch.addEntity(e)
			row := a.globalRow(i, local)
			a.rows.Put(e.Packed(), row)
			return row
		}
	}
	ch := newChunk(a.metas)
	a.chunks = append(a.chunks, ch)
	local := ch.addEntity(e)
	row := a.globalRow(len(a.chunks)-1, local)
	a.rows.Put(e.Packed(), row)
	return row
}

// removeEntity removes the entity occupying row. If removing it required
// moving another entity into the vacated slot (either an in-chunk swap,
// or a cross-chunk pull from the tail-most occupied chunk), that moved
// entity's handle is returned so the caller can update its directory
// entry; ok is false when no entity needed to move.
func (a *Archetype) removeEntity(row uint32) (moved EntityID, ok bool) {
	chunkIdx, local := a.rowToChunk(row)
	removed := a.chunks[chunkIdx].entities[local]
	a.rows.Del(removed.Packed())

	lastIdx := len(a.chunks) - 1
	if chunkIdx == lastIdx {
		m := a.chunks[chunkIdx].swapRemove(local)
		a.trimEmptyTail()
		if m.IsNull() {
			return EntityID{}, false
		}
		a.rows.Put(m.Packed(), a.globalRow(chunkIdx, local))
		return m, true
	}

	target := a.chunks[chunkIdx]
	tail := a.chunks[lastIdx]
	srcLocal := tail.count - 1
	pulled := tail.entities[srcLocal]

	copyRow(target, local, tail, srcLocal)
	target.entities[local] = pulled
	tail.entities[srcLocal] = EntityID{}
	tail.count--

	a.trimEmptyTail()
	newRow := a.globalRow(chunkIdx, local)
	a.rows.Put(pulled.Packed(), newRow)
	return pulled, true
}

// trimEmptyTail drops trailing chunks once they've been drained to zero
// rows, so the "only the last chunk may be non-full" invariant always
// refers to a chunk that genuinely still exists.
func (a *Archetype) trimEmptyTail() {
	for len(a.chunks) > 0 && a.chunks[len(a.chunks)-1].count == 0 {
		a.chunks = a.chunks[:len(a.chunks)-1]
	}
}

// copyRow copies every column's bytes for src row srcLocal in chunk src
// into dst row dstLocal in chunk dst. Both chunks must belong to the same
// archetype (same column order).
func copyRow(dst *Chunk, dstLocal int, src *Chunk, srcLocal int) {
	for i := range dst.columns {
		dc := &dst.columns[i]
		sc := &src.columns[i]
		copy(dc.slot(dstLocal), sc.slot(srcLocal))
	}
}

// copyIntersectingColumns copies every column old and new have in common
// from old's (oldRow) to new's (newRow), using each type's registered
// copy-bytes vtable entry rather than a blind memcpy, per the registry's
// per-type dispatch.
func copyIntersectingColumns(old *Archetype, oldRow uint32, newArch *Archetype, newRow uint32, reg *ComponentRegistry) {
	oChunkIdx, oLocal := old.rowToChunk(oldRow)
	nChunkIdx, nLocal := newArch.rowToChunk(newRow)
	oChunk := old.chunks[oChunkIdx]
	nChunk := newArch.chunks[nChunkIdx]

	for _, id := range newArch.typeIDs {
		if !old.signature.Has(id) {
			continue
		}
		meta := reg.Meta(id)
		srcIdx := oChunk.colIndex[id]
		dstIdx := nChunk.colIndex[id]
		scol := &oChunk.columns[srcIdx]
		dcol := &nChunk.columns[dstIdx]
		meta.copyBytes(dcol.slot(nLocal), scol.slot(oLocal))
	}
}
