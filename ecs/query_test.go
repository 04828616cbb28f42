package ecs_test

import (
	"testing"

	"github.com/axiomforge/archetype/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithWithout(t *testing.T) {
	w := newTestWorld()

	mover := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, mover, Position{}))
	require.NoError(t, ecs.AddComponent(w, mover, Velocity{}))

	still := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, still, Position{}))

	q := ecs.WithoutT[Velocity](ecs.WithT[Position](ecs.NewQuery(w)))
	assert.Equal(t, 1, q.Count())

	found, ok := q.FirstEntity()
	require.True(t, ok)
	assert.Equal(t, still, found)
}

func TestQueryPlanAppendsNewArchetype(t *testing.T) {
	w := newTestWorld()
	q := ecs.WithT[Velocity](ecs.NewQuery(w))
	assert.Equal(t, 0, q.Count())

	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Velocity{DX: 1}))

	assert.Equal(t, 1, q.Count(), "a newly created matching archetype must be picked up without rebuilding the plan")
}

func TestQueryChunksIterateAllMatchingRows(t *testing.T) {
	w := newTestWorld()
	const n = 5
	for i := 0; i < n; i++ {
		e := w.CreateEntity()
		require.NoError(t, ecs.AddComponent(w, e, Position{X: float32(i)}))
	}

	q := ecs.WithT[Position](ecs.NewQuery(w))
	total := 0
	for ch := range q.Chunks() {
		total += ch.Count()
		vals := ecs.Column[Position](ch, ecs.ComponentID[Position](w))
		assert.Len(t, vals, ch.Count())
	}
	assert.Equal(t, n, total)
}

func TestQueryAnyAndEmptyPlan(t *testing.T) {
	w := newTestWorld()
	q := ecs.WithT[Health](ecs.NewQuery(w))
	assert.False(t, q.Any())

	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Health{Current: 1, Max: 1}))
	assert.True(t, q.Any())
}
