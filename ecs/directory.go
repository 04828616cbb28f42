package ecs

// dirEntry is the directory's per-id record: where a live entity's row
// data currently lives, and the generation a handle must present to be
// considered fresh.
type dirEntry struct {
	generation  uint32
	archetypeID uint32
	row         uint32
	alive       bool
}

// directory is the indirection layer between a stable EntityID and the
// (archetype, row) where its component data physically lives. It is the
// only place that translates id 0 reservation, generation bumps on
// recycle, and the free-id list.
type directory struct {
	entries  []dirEntry // entries[0] is the reserved null slot, never allocated
	freelist []uint32
}

func newDirectory() directory {
	return directory{entries: make([]dirEntry, 1)}
}

// create allocates a fresh id (recycling one from the freelist if
// available) and returns the new handle's id and generation. A recycled
// id's generation is incremented exactly once here, so a handle captured
// before the matching destroy can never alias the new occupant.
func (d *directory) create() (id uint32, generation uint32) {
	if n := len(d.freelist); n > 0 {
		id = d.freelist[n-1]
		d.freelist = d.freelist[:n-1]
		d.entries[id].generation++
		d.entries[id].alive = true
		return id, d.entries[id].generation
	}
	id = uint32(len(d.entries))
	d.entries = append(d.entries, dirEntry{alive: true})
	return id, 0
}

// destroy marks id dead and returns it to the freelist. It does not bump
// generation; the bump happens lazily, on the next create() that recycles
// this id, so an id that's never reused never pays for a generation it
// doesn't need.
func (d *directory) destroy(id uint32) {
	d.entries[id].alive = false
	d.entries[id].archetypeID = 0
	d.entries[id].row = 0
	d.freelist = append(d.freelist, id)
}

func (d *directory) isAlive(e EntityID) bool {
	if e.id == 0 || int(e.id) >= len(d.entries) {
		return false
	}
	ent := &d.entries[e.id]
	return ent.alive && ent.generation == e.generation
}

func (d *directory) locate(e EntityID) (archetypeID, row uint32, ok bool) {
	if !d.isAlive(e) {
		return 0, 0, false
	}
	ent := &d.entries[e.id]
	return ent.archetypeID, ent.row, true
}

func (d *directory) setLocation(id uint32, archetypeID, row uint32) {
	d.entries[id].archetypeID = archetypeID
	d.entries[id].row = row
}
