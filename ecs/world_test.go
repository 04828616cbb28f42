package ecs_test

import (
	"testing"

	"github.com/axiomforge/archetype/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGetComponent(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()

	require.NoError(t, ecs.AddComponent(w, e, Position{X: 1, Y: 2}))

	pos, err := ecs.GetComponent[Position](w, e)
	require.NoError(t, err)
	assert.Equal(t, float32(1), pos.X)
	assert.Equal(t, float32(2), pos.Y)
}

func TestAddComponentOverwritesExisting(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Position{X: 1, Y: 1}))
	require.NoError(t, ecs.AddComponent(w, e, Position{X: 9, Y: 9}))

	pos, err := ecs.GetComponent[Position](w, e)
	require.NoError(t, err)
	assert.Equal(t, float32(9), pos.X)
}

func TestGetComponentMissing(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Position{}))

	_, err := ecs.GetComponent[Velocity](w, e)
	assert.ErrorIs(t, err, ecs.ErrComponentMissing)
}

func TestGetComponentOnDeadEntity(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	w.DestroyEntity(e)

	_, err := ecs.GetComponent[Position](w, e)
	assert.ErrorIs(t, err, ecs.ErrEntityDead)
}

func TestAddRemoveOnDeadEntityIsNoOp(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	w.DestroyEntity(e)

	assert.NotPanics(t, func() {
		require.NoError(t, ecs.AddComponent(w, e, Position{}))
		require.NoError(t, ecs.RemoveComponent[Position](w, e))
	})
	assert.False(t, w.IsAlive(e))
}

func TestRemoveComponentMigratesArchetype(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Position{X: 1, Y: 1}))
	require.NoError(t, ecs.AddComponent(w, e, Velocity{DX: 1, DY: 1}))

	require.NoError(t, ecs.RemoveComponent[Velocity](w, e))

	assert.True(t, ecs.HasComponent[Position](w, e))
	assert.False(t, ecs.HasComponent[Velocity](w, e))

	pos, err := ecs.GetComponent[Position](w, e)
	require.NoError(t, err)
	assert.Equal(t, float32(1), pos.X, "migration must preserve surviving component data")
}

func TestRemoveComponentNotPresentIsNoOp(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Position{}))

	require.NoError(t, ecs.RemoveComponent[Velocity](w, e))
	assert.True(t, ecs.HasComponent[Position](w, e))
}

// TestDestroyMiddleEntityPreservesSiblings mirrors the spec's
// create-three/destroy-the-middle scenario: swap-remove must not corrupt
// the surviving two entities' component data or identity.
func TestDestroyMiddleEntityPreservesSiblings(t *testing.T) {
	w := newTestWorld()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e1, Position{X: 1}))
	require.NoError(t, ecs.AddComponent(w, e2, Position{X: 2}))
	require.NoError(t, ecs.AddComponent(w, e3, Position{X: 3}))

	w.DestroyEntity(e2)

	assert.True(t, w.IsAlive(e1))
	assert.False(t, w.IsAlive(e2))
	assert.True(t, w.IsAlive(e3))

	p1, err := ecs.GetComponent[Position](w, e1)
	require.NoError(t, err)
	assert.Equal(t, float32(1), p1.X)

	p3, err := ecs.GetComponent[Position](w, e3)
	require.NoError(t, err)
	assert.Equal(t, float32(3), p3.X, "swap-remove must carry the moved entity's data intact")
}

func TestChunkDensityInvariantAcrossManyEntities(t *testing.T) {
	w := newTestWorld()
	const n = ecs.ChunkCapacity*2 + 37

	entities := make([]ecs.EntityID, n)
	for i := range entities {
		e := w.CreateEntity()
		require.NoError(t, ecs.AddComponent(w, e, Position{X: float32(i)}))
		entities[i] = e
	}

	// destroy every third entity to force swap-remove / cross-chunk pulls
	destroyed := 0
	for i := 0; i < n; i += 3 {
		w.DestroyEntity(entities[i])
		destroyed++
	}

	require.NoError(t, ecs.ValidateIntegrity(w))

	q := ecs.WithT[Position](ecs.NewQuery(w))
	assert.Equal(t, n-destroyed, q.Count())
}

func TestSetSingleton(t *testing.T) {
	w := newTestWorld()
	*ecs.Singleton[Health](w) = Health{Current: 10, Max: 10}

	h := ecs.Singleton[Health](w)
	assert.Equal(t, int32(10), h.Current)

	h.Current = 5
	assert.Equal(t, int32(5), ecs.Singleton[Health](w).Current, "Singleton must return a live pointer into world storage")
}
