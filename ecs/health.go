package ecs

import "fmt"

// ArchetypeStat summarizes one archetype for a Stats snapshot.
type ArchetypeStat struct {
	ID          uint32
	Signature   Signature
	EntityCount int
	ChunkCount  int
}

// Stats is a read-only snapshot of a World's shape, for monitoring and
// tests — never consulted on the hot path.
type Stats struct {
	EntityCount    int
	ArchetypeCount int
	Archetypes     []ArchetypeStat
}

// CollectStats walks w and returns a point-in-time Stats snapshot.
// Archetypes currently holding zero entities — including the empty
// archetype NewWorld always creates for freshly spawned, componentless
// entities — are omitted: Stats describes the world's live shape, not
// the bookkeeping of archetypes that have existed.
func CollectStats(w *World) Stats {
	var stats Stats
	stats.Archetypes = make([]ArchetypeStat, 0, len(w.archetypesByID))
	for _, a := range w.archetypesByID {
		n := a.EntityCount()
		if n == 0 {
			continue
		}
		stats.EntityCount += n
		stats.Archetypes = append(stats.Archetypes, ArchetypeStat{
			ID:          a.id,
			Signature:   a.signature,
			EntityCount: n,
			ChunkCount:  len(a.chunks),
		})
	}
	stats.ArchetypeCount = len(stats.Archetypes)
	return stats
}

// ValidateIntegrity walks every archetype and directory entry checking
// the invariants the rest of the package assumes: every chunk but
// possibly the last is full, every entity stored in a chunk row is alive
// per the directory and its directory entry points back at exactly that
// row, and every archetype's row index agrees with its chunks. Live
// directory entries are not walked on their own: one whose row holds a
// different entity is not detected. It is a debug-only consistency
// check, not something the hot path calls — intended for tests and for
// callers who want to fail fast on a suspected corruption rather than
// find out from a garbled read later.
func ValidateIntegrity(w *World) error {
	for _, a := range w.archetypesByID {
		for i, ch := range a.chunks {
			if ch.count > ChunkCapacity {
				return fmt.Errorf("archetype %d chunk %d: count %d exceeds capacity %d", a.id, i, ch.count, ChunkCapacity)
			}
			if i != len(a.chunks)-1 && ch.count != ChunkCapacity {
				return fmt.Errorf("archetype %d chunk %d: non-last chunk has count %d, want %d", a.id, i, ch.count, ChunkCapacity)
			}
			for row := 0; row < ch.count; row++ {
				e := ch.entities[row]
				if e.IsNull() {
					return fmt.Errorf("archetype %d chunk %d row %d: occupied row holds null entity", a.id, i, row)
				}
				archID, dirRow, ok := w.dir.locate(e)
				if !ok {
					return fmt.Errorf("archetype %d chunk %d row %d: entity %s not alive per directory", a.id, i, row, e)
				}
				if archID != a.id {
					return fmt.Errorf("entity %s: directory says archetype %d, found in archetype %d", e, archID, a.id)
				}
				gotChunk, gotLocal := a.rowToChunk(dirRow)
				if gotChunk != i || gotLocal != row {
					return fmt.Errorf("entity %s: directory row %d resolves to chunk %d row %d, found at chunk %d row %d", e, dirRow, gotChunk, gotLocal, i, row)
				}
				if idxRow, ok := a.rows.Get(e.Packed()); !ok || idxRow != a.globalRow(i, row) {
					return fmt.Errorf("archetype %d: row index for entity %s disagrees with chunk %d row %d", a.id, e, i, row)
				}
			}
		}
		if a.rows.Len() != a.EntityCount() {
			return fmt.Errorf("archetype %d: row index holds %d entries, chunks hold %d entities", a.id, a.rows.Len(), a.EntityCount())
		}
	}
	return nil
}
