package ecs

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
)

const (
	snapshotMagic      uint32 = 0x45535345 // "ESSE"
	snapshotVersion    uint32 = 1
	snapshotHeaderSize        = 80
)

// Header is the fixed-size preamble of a snapshot. Its layout is
// little-endian throughout and is zero-padded to snapshotHeaderSize (80)
// bytes; the type table follows immediately at offset 80.
type Header struct {
	Magic          uint32
	Version        uint32
	EntityCount    uint32
	ArchetypeCount uint32
	Timestamp      uint64
	Checksum       uint32
}

// Write encodes h in wire format to w.
func (h Header) Write(w io.Writer) error {
	buf := make([]byte, snapshotHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.EntityCount)
	binary.LittleEndian.PutUint32(buf[12:16], h.ArchetypeCount)
	binary.LittleEndian.PutUint64(buf[16:24], h.Timestamp)
	binary.LittleEndian.PutUint32(buf[24:28], h.Checksum)
	// buf[28:80] is reserved padding, left zeroed.
	_, err := w.Write(buf)
	return err
}

// Read decodes a Header from r.
func (h *Header) Read(r io.Reader) error {
	buf := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return ErrTruncated
		}
		return err
	}
	h.Magic = binary.LittleEndian.Uint32(buf[0:4])
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.EntityCount = binary.LittleEndian.Uint32(buf[8:12])
	h.ArchetypeCount = binary.LittleEndian.Uint32(buf[12:16])
	h.Timestamp = binary.LittleEndian.Uint64(buf[16:24])
	h.Checksum = binary.LittleEndian.Uint32(buf[24:28])
	return nil
}

// computeChecksum folds the fields spec'd as checksummed — entity count,
// archetype count, and each archetype's (id, entity count, component
// count, ordered type ids) — FNV-1a style, the same fold Signature.Hash
// uses. Component bytes themselves are not checksummed.
func computeChecksum(entityCount, archetypeCount uint32, archetypes []*Archetype) uint32 {
	h := uint32(2166136261)
	const prime = 16777619
	mix := func(v uint32) {
		h ^= v
		h *= prime
	}
	mix(entityCount)
	mix(archetypeCount)
	for _, a := range archetypes {
		mix(a.id)
		mix(uint32(a.EntityCount()))
		mix(uint32(len(a.typeIDs)))
		for _, id := range a.typeIDs {
			mix(uint32(id))
		}
	}
	return h
}

// Save encodes w's entire state — every live entity, its archetype
// membership, and every component value — as a deterministic byte
// stream. timestamp is caller-supplied (Date/clock access is a host
// concern, not the codec's).
func Save(w *World, timestamp uint64) ([]byte, error) {
	var buf bytes.Buffer

	entityCount := uint32(w.EntityCount())
	archetypeCount := uint32(len(w.archetypesByID))
	checksum := computeChecksum(entityCount, archetypeCount, w.archetypesByID)

	header := Header{
		Magic:          snapshotMagic,
		Version:        snapshotVersion,
		EntityCount:    entityCount,
		ArchetypeCount: archetypeCount,
		Timestamp:      timestamp,
		Checksum:       checksum,
	}
	if err := header.Write(&buf); err != nil {
		return nil, err
	}

	if err := writeTypeTable(&buf, w.registry); err != nil {
		return nil, err
	}

	for _, a := range w.archetypesByID {
		if err := writeArchetypeBlock(&buf, a, w.registry); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writeTypeTable(buf *bytes.Buffer, reg *ComponentRegistry) error {
	n := reg.Count()
	if err := writeU32(buf, uint32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		meta := reg.Meta(TypeID(i))
		if err := writeU32(buf, uint32(meta.id)); err != nil {
			return err
		}
		nameBytes := []byte(meta.name)
		if err := writeU32(buf, uint32(len(nameBytes))); err != nil {
			return err
		}
		if _, err := buf.Write(nameBytes); err != nil {
			return err
		}
	}
	return nil
}

func writeArchetypeBlock(buf *bytes.Buffer, a *Archetype, reg *ComponentRegistry) error {
	entities := sortedEntities(a)

	if err := writeU32(buf, a.id); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(a.typeIDs))); err != nil {
		return err
	}
	if err := writeU32(buf, uint32(len(entities))); err != nil {
		return err
	}

	dataLen := len(a.typeIDs)*4 + len(entities)*8
	for _, id := range a.typeIDs {
		dataLen += len(entities) * int(reg.Meta(id).size)
	}
	if err := writeU32(buf, uint32(dataLen)); err != nil {
		return err
	}

	for _, id := range a.typeIDs {
		if err := writeU32(buf, uint32(id)); err != nil {
			return err
		}
	}
	for _, e := range entities {
		if err := writeU64(buf, e.Packed()); err != nil {
			return err
		}
	}

	for _, id := range a.typeIDs {
		for _, e := range entities {
			row, _ := a.rows.Get(e.Packed())
			chunkIdx, local := a.rowToChunk(row)
			col := &a.chunks[chunkIdx].columns[a.chunks[chunkIdx].colIndex[id]]
			if _, err := buf.Write(col.slot(local)); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedEntities(a *Archetype) []EntityID {
	var ids []EntityID
	for _, ch := range a.chunks {
		for i := 0; i < ch.count; i++ {
			ids = append(ids, ch.entities[i])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].id < ids[j].id })
	return ids
}

func writeU32(buf *bytes.Buffer, v uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	_, err := buf.Write(tmp[:])
	return err
}

func writeU64(buf *bytes.Buffer, v uint64) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	_, err := buf.Write(tmp[:])
	return err
}

// Restore decodes data and replaces w's entire directory and archetype
// table with what it describes. Restore is atomic: decoding happens
// into an intermediate representation first, so any error (bad magic,
// unsupported version, truncated data, a component type the World's
// registry doesn't recognize by name, or a checksum mismatch) leaves w
// completely unchanged. This is an overwrite, never a merge — anything
// already in w is discarded on success.
func Restore(w *World, data []byte) error {
	r := bytes.NewReader(data)

	var header Header
	if err := header.Read(r); err != nil {
		return err
	}
	if header.Magic != snapshotMagic {
		return ErrBadMagic
	}
	if header.Version != snapshotVersion {
		return ErrUnsupportedVersion
	}

	nameByID, err := readTypeTable(r)
	if err != nil {
		return err
	}

	idRemap := make(map[uint32]TypeID, len(nameByID))
	for savedID, name := range nameByID {
		id, ok := w.registry.TypeIDByName(name)
		if !ok {
			return UnknownComponent{Name: name}
		}
		idRemap[savedID] = id
	}

	decoded := make([]decodedArchetype, 0, header.ArchetypeCount)
	for i := uint32(0); i < header.ArchetypeCount; i++ {
		da, err := readArchetypeBlock(r, idRemap, w.registry)
		if err != nil {
			return err
		}
		decoded = append(decoded, da)
	}

	if computeChecksumDecoded(header.EntityCount, header.ArchetypeCount, decoded) != header.Checksum {
		return ErrChecksumMismatch
	}

	applyRestore(w, decoded)
	return nil
}

type decodedArchetype struct {
	savedID      uint32
	savedTypeIDs []uint32 // type ids as written by Save, pre-remap; what the checksum was folded over
	signature    Signature
	typeIDs      []TypeID
	entities     []EntityID
	columns      [][]byte // parallel to typeIDs; each entityCount*elemSize bytes
}

// computeChecksumDecoded recomputes the same FNV-1a-style fold
// computeChecksum applied at Save time, but over the decoded
// representation Restore has in hand before any World mutation — using
// each archetype's saved id and pre-remap type ids, since those are
// exactly what was mixed into the stored checksum.
func computeChecksumDecoded(entityCount, archetypeCount uint32, decoded []decodedArchetype) uint32 {
	h := uint32(2166136261)
	const prime = 16777619
	mix := func(v uint32) {
		h ^= v
		h *= prime
	}
	mix(entityCount)
	mix(archetypeCount)
	for _, da := range decoded {
		mix(da.savedID)
		mix(uint32(len(da.entities)))
		mix(uint32(len(da.savedTypeIDs)))
		for _, id := range da.savedTypeIDs {
			mix(id)
		}
	}
	return h
}

func readTypeTable(r *bytes.Reader) (map[uint32]string, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	out := make(map[uint32]string, count)
	for i := uint32(0); i < count; i++ {
		id, err := readU32(r)
		if err != nil {
			return nil, err
		}
		nameLen, err := readU32(r)
		if err != nil {
			return nil, err
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, ErrTruncated
		}
		out[id] = string(nameBytes)
	}
	return out, nil
}

func readArchetypeBlock(r *bytes.Reader, idRemap map[uint32]TypeID, reg *ComponentRegistry) (decodedArchetype, error) {
	var da decodedArchetype

	savedID, err := readU32(r) // ids are reassigned on restore, but the checksum was folded over this one
	if err != nil {
		return da, err
	}
	da.savedID = savedID
	componentCount, err := readU32(r)
	if err != nil {
		return da, err
	}
	entityCount, err := readU32(r)
	if err != nil {
		return da, err
	}
	if _, err := readU32(r); err != nil { // data_len, informational
		return da, err
	}

	savedTypeIDs := make([]uint32, componentCount)
	for i := range savedTypeIDs {
		v, err := readU32(r)
		if err != nil {
			return da, err
		}
		savedTypeIDs[i] = v
	}

	da.savedTypeIDs = savedTypeIDs
	da.typeIDs = make([]TypeID, componentCount)
	for i, savedTypeID := range savedTypeIDs {
		da.typeIDs[i] = idRemap[savedTypeID]
	}

	da.entities = make([]EntityID, entityCount)
	for i := range da.entities {
		v, err := readU64(r)
		if err != nil {
			return da, err
		}
		da.entities[i] = EntityFromPacked(v)
	}

	da.columns = make([][]byte, componentCount)
	for ci, id := range da.typeIDs {
		meta := reg.Meta(id)
		n := int(meta.size) * int(entityCount)
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return da, ErrTruncated
		}
		da.columns[ci] = buf
		da.signature = da.signature.Add(id)
	}

	return da, nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

// applyRestore resets w and rebuilds its directory/archetypes from
// decoded, preserving the original entity ids and generations exactly
// (a wholesale overwrite, per spec).
func applyRestore(w *World, decoded []decodedArchetype) {
	w.dir = newDirectory()
	w.archetypesByID = nil
	w.archetypesBySig = make(map[Signature]*Archetype)
	w.nextArchetypeID = 0
	w.plans = make(map[planKey]*queryPlan)
	w.getOrCreateArchetype(Signature{})

	maxID := uint32(0)
	for _, da := range decoded {
		for _, e := range da.entities {
			if e.id > maxID {
				maxID = e.id
			}
		}
	}
	w.dir.entries = make([]dirEntry, maxID+1)

	for _, da := range decoded {
		arch := w.getOrCreateArchetype(da.signature)
		for i, e := range da.entities {
			row := arch.addEntity(e)
			w.dir.entries[e.id] = dirEntry{generation: e.generation, archetypeID: arch.id, row: row, alive: true}

			chunkIdx, local := arch.rowToChunk(row)
			ch := arch.chunks[chunkIdx]
			for ci, id := range da.typeIDs {
				meta := w.registry.Meta(id)
				col := &ch.columns[ch.colIndex[id]]
				src := da.columns[ci][uintptr(i)*meta.size : uintptr(i+1)*meta.size]
				meta.copyBytes(col.slot(local), src)
			}
		}
	}

	for id := uint32(1); id <= maxID; id++ {
		if !w.dir.entries[id].alive {
			w.dir.freelist = append(w.dir.freelist, id)
		}
	}
}
