package ecs

import "iter"

// planKey identifies a compiled (with, without) archetype filter.
type planKey struct {
	with    Signature
	without Signature
}

// queryPlan is the list of archetypes currently matching a planKey. It is
// shared by every Query built with the same filter, and is appended to
// (never rescanned from scratch) when a new archetype is created that
// matches — see World.onArchetypeCreated.
type queryPlan struct {
	archetypes []*Archetype
}

func matchesFilter(sig, with, without Signature) bool {
	return sig.IsSupersetOf(with) && !sig.HasIntersection(without)
}

// onArchetypeCreated appends a to every live plan it matches. Called once
// per new archetype, from World.getOrCreateArchetype.
func (w *World) onArchetypeCreated(a *Archetype) {
	for key, plan := range w.plans {
		if matchesFilter(a.signature, key.with, key.without) {
			plan.archetypes = append(plan.archetypes, a)
		}
	}
}

// Query selects every entity whose archetype carries all of With's
// component types and none of Without's. Build one with NewQuery, narrow
// it with With/Without, then iterate with Chunks, Count, or Any.
type Query struct {
	world   *World
	with    Signature
	without Signature
	plan    *queryPlan
}

// NewQuery returns an unfiltered Query over w (matches every archetype
// until narrowed with With/Without).
func NewQuery(w *World) *Query {
	return &Query{world: w}
}

// With narrows the query to archetypes carrying every type in ids.
// Obtain ids with ComponentID[T](world). Invalidates any cached plan.
func (q *Query) With(ids ...TypeID) *Query {
	for _, id := range ids {
		q.with = q.with.Add(id)
	}
	q.plan = nil
	return q
}

// Without narrows the query to archetypes carrying none of the types in
// ids. Invalidates any cached plan.
func (q *Query) Without(ids ...TypeID) *Query {
	for _, id := range ids {
		q.without = q.without.Add(id)
	}
	q.plan = nil
	return q
}

// WithT is sugar for q.With(ComponentID[T](world)).
func WithT[T any](q *Query) *Query {
	return q.With(ComponentID[T](q.world))
}

// WithoutT is sugar for q.Without(ComponentID[T](world)).
func WithoutT[T any](q *Query) *Query {
	return q.Without(ComponentID[T](q.world))
}

func (q *Query) compile() *queryPlan {
	if q.plan != nil {
		return q.plan
	}
	key := planKey{with: q.with, without: q.without}
	if p, ok := q.world.plans[key]; ok {
		q.plan = p
		return p
	}
	p := &queryPlan{}
	for _, a := range q.world.archetypesByID {
		if matchesFilter(a.signature, key.with, key.without) {
			p.archetypes = append(p.archetypes, a)
		}
	}
	q.world.plans[key] = p
	q.plan = p
	return p
}

// Chunks iterates every non-empty chunk across every matching archetype.
// Iteration state is two slice indices into the cached plan; no
// allocation occurs once the plan has been compiled at least once.
func (q *Query) Chunks() iter.Seq[*Chunk] {
	plan := q.compile()
	return func(yield func(*Chunk) bool) {
		for _, a := range plan.archetypes {
			for _, ch := range a.chunks {
				if ch.count == 0 {
					continue
				}
				if !yield(ch) {
					return
				}
			}
		}
	}
}

// Archetypes returns the archetypes currently matching the query. The
// slice is the plan's live backing array — callers must not mutate it.
func (q *Query) Archetypes() []*Archetype {
	return q.compile().archetypes
}

// Count returns the total number of entities currently matching.
func (q *Query) Count() int {
	total := 0
	for _, a := range q.compile().archetypes {
		total += a.EntityCount()
	}
	return total
}

// Any reports whether at least one entity currently matches.
func (q *Query) Any() bool {
	for _, a := range q.compile().archetypes {
		if a.EntityCount() > 0 {
			return true
		}
	}
	return false
}

// FirstEntity returns the first matching entity, if any.
func (q *Query) FirstEntity() (EntityID, bool) {
	for ch := range q.Chunks() {
		return ch.Entity(0), true
	}
	return EntityID{}, false
}
