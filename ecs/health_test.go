package ecs_test

import (
	"testing"

	"github.com/axiomforge/archetype/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStatsReportsEntityAndArchetypeCounts(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 3; i++ {
		e := w.CreateEntity()
		require.NoError(t, ecs.AddComponent(w, e, Position{}))
	}
	for i := 0; i < 2; i++ {
		e := w.CreateEntity()
		require.NoError(t, ecs.AddComponent(w, e, Position{}))
		require.NoError(t, ecs.AddComponent(w, e, Velocity{}))
	}

	stats := ecs.CollectStats(w)
	assert.Equal(t, 5, stats.EntityCount)
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Len(t, stats.Archetypes, 2)

	total := 0
	for _, a := range stats.Archetypes {
		total += a.EntityCount
		assert.GreaterOrEqual(t, a.ChunkCount, 1)
	}
	assert.Equal(t, 5, total)
}

func TestValidateIntegrityPassesOnHealthyWorld(t *testing.T) {
	w := newTestWorld()
	entities := make([]ecs.EntityID, 0, 30)
	for i := 0; i < 30; i++ {
		e := w.CreateEntity()
		require.NoError(t, ecs.AddComponent(w, e, Position{X: float32(i)}))
		entities = append(entities, e)
	}
	for i := 0; i < 30; i += 2 {
		w.DestroyEntity(entities[i])
	}

	assert.NoError(t, ecs.ValidateIntegrity(w))
}

func TestCollectStatsOnEmptyWorld(t *testing.T) {
	w := newTestWorld()
	stats := ecs.CollectStats(w)
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 0, stats.ArchetypeCount)
}
