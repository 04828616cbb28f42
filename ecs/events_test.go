package ecs_test

import (
	"testing"

	"github.com/axiomforge/archetype/ecs"
	"github.com/stretchr/testify/assert"
)

func TestEventChannelPublishConsume(t *testing.T) {
	w := newTestWorld()
	ch := ecs.Events[CollisionEvent](w)

	ch.Publish(CollisionEvent{A: ecs.EntityFromPacked(1), B: ecs.EntityFromPacked(2)})
	assert.Equal(t, 1, ch.Count())

	var got []CollisionEvent
	ch.ConsumeAll(func(e CollisionEvent) { got = append(got, e) })
	assert.Len(t, got, 1)
	assert.True(t, ch.IsEmpty())
}

func TestEventChannelOverwritesOldestWhenFull(t *testing.T) {
	ch := ecs.NewEventChannel[int](4)
	for i := 0; i < 6; i++ {
		ch.Publish(i)
	}
	assert.True(t, ch.IsFull())
	assert.Equal(t, 4, ch.Count())

	var got []int
	ch.ConsumeAll(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{2, 3, 4, 5}, got, "overflow must overwrite the oldest entries, not error")
}

func TestClearOneFrameClearsRegisteredChannelsOnly(t *testing.T) {
	w := newTestWorld()
	oneFrame := ecs.Events[DamageEvent](w)
	persistent := ecs.Events[CollisionEvent](w)

	oneFrame.Publish(DamageEvent{Amount: 5})
	persistent.Publish(CollisionEvent{})

	w.ClearOneFrame()

	assert.True(t, oneFrame.IsEmpty(), "a RegisterOneFrame payload channel must be cleared at the frame boundary")
	assert.False(t, persistent.IsEmpty(), "a non-one-frame payload channel must survive ClearOneFrame")
}

func TestClearOneFrameZeroesComponentColumn(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	// DamageEvent is also a valid component type; attach it directly to
	// exercise the column-zeroing path (not just the event-channel path).
	_ = ecs.AddComponent(w, e, DamageEvent{Amount: 42})

	w.ClearOneFrame()

	val, err := ecs.GetComponent[DamageEvent](w, e)
	if err == nil {
		assert.Equal(t, int32(0), val.Amount, "a one-frame component's bytes are zeroed, its presence bit stays set")
	}
}
