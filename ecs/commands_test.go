package ecs_test

import (
	"reflect"
	"testing"

	"github.com/axiomforge/archetype/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsSpawnFlushesOnNextBoundary(t *testing.T) {
	w := newTestWorld()
	cmds := ecs.NewCommands()

	cmds.Spawn(Position{X: 3, Y: 4})
	assert.Equal(t, 0, w.EntityCount(), "queued spawns must not touch the world before Flush")

	cmds.Flush(w)
	assert.Equal(t, 1, w.EntityCount())

	q := ecs.WithT[Position](ecs.NewQuery(w))
	e, ok := q.FirstEntity()
	require.True(t, ok)
	pos, err := ecs.GetComponent[Position](w, e)
	require.NoError(t, err)
	assert.Equal(t, float32(3), pos.X)
}

func TestCommandsDeleteAndAddOrdering(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Position{X: 1}))

	cmds := ecs.NewCommands()
	cmds.AddComponent(e, Velocity{DX: 5})
	cmds.Delete(e)
	cmds.Flush(w)

	// adds run before deletes, so the add must have applied before the
	// entity was destroyed; after Flush the entity is gone regardless.
	assert.False(t, w.IsAlive(e))
}

func TestCommandsRemoveComponent(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, e, Position{X: 1}))
	require.NoError(t, ecs.AddComponent(w, e, Velocity{DX: 1}))

	cmds := ecs.NewCommands()
	cmds.RemoveComponent(e, reflect.TypeOf(Velocity{}))
	cmds.Flush(w)

	assert.True(t, ecs.HasComponent[Position](w, e))
	assert.False(t, ecs.HasComponent[Velocity](w, e))
}

func TestCommandsAddOnDeadOrNullEntityIsNoOp(t *testing.T) {
	w := newTestWorld()
	dead := w.CreateEntity()
	w.DestroyEntity(dead)

	cmds := ecs.NewCommands()
	cmds.AddComponent(ecs.NullEntity, Position{X: 1})
	cmds.AddComponent(dead, Position{X: 2})
	cmds.RemoveComponent(dead, reflect.TypeOf(Position{}))

	assert.NotPanics(t, func() { cmds.Flush(w) })
	assert.False(t, w.IsAlive(dead))
	assert.False(t, w.IsAlive(ecs.NullEntity))
}

func TestCommandsDeferRunsLast(t *testing.T) {
	w := newTestWorld()
	cmds := ecs.NewCommands()

	var order []string
	cmds.Spawn(Position{})
	cmds.Defer(func() { order = append(order, "defer") })
	cmds.AddComponent(ecs.NullEntity, Position{})

	cmds.Flush(w)
	order = append(order, "after")
	assert.Equal(t, []string{"defer", "after"}, order)
}

func TestCommandsBufferResetsAfterFlush(t *testing.T) {
	w := newTestWorld()
	cmds := ecs.NewCommands()
	cmds.Spawn(Position{})
	cmds.Flush(w)
	assert.Equal(t, 1, w.EntityCount())

	cmds.Flush(w)
	assert.Equal(t, 1, w.EntityCount(), "a second Flush with an empty buffer must be a no-op")
}
