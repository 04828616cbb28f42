package ecs_test

import (
	"testing"

	"github.com/axiomforge/archetype/ecs"
	"github.com/stretchr/testify/assert"
)

func TestEntityIDPackedRoundTrip(t *testing.T) {
	tests := []struct {
		id, gen uint32
	}{
		{0, 0},
		{1, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{12345, 67890},
	}
	for _, tt := range tests {
		handle := ecs.EntityFromPacked(uint64(tt.id)<<32 | uint64(tt.gen))
		assert.Equal(t, tt.id, handle.ID())
		assert.Equal(t, tt.gen, handle.Generation())
		assert.Equal(t, uint64(tt.id)<<32|uint64(tt.gen), handle.Packed())
	}
}

func TestNullEntityIsNull(t *testing.T) {
	assert.True(t, ecs.NullEntity.IsNull())
	assert.False(t, ecs.NullEntity.ID() != 0)
}

func TestCreateEntityNeverReturnsNull(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 10; i++ {
		e := w.CreateEntity()
		assert.False(t, e.IsNull())
		assert.True(t, w.IsAlive(e))
	}
}

func TestDestroyThenRecycleBumpsGeneration(t *testing.T) {
	w := newTestWorld()
	e1 := w.CreateEntity()
	w.DestroyEntity(e1)
	assert.False(t, w.IsAlive(e1))

	e2 := w.CreateEntity()
	assert.Equal(t, e1.ID(), e2.ID(), "freed id should be recycled")
	assert.Greater(t, e2.Generation(), e1.Generation(), "recycled id must bump generation")
	assert.False(t, w.IsAlive(e1), "stale handle to the old generation must stay dead")
	assert.True(t, w.IsAlive(e2))
}

func TestDestroyIsIdempotent(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	w.DestroyEntity(e)
	assert.NotPanics(t, func() { w.DestroyEntity(e) })
}
