package ecs_test

import "github.com/axiomforge/archetype/ecs"

// Test component types. All are plain fixed-size records: no pointers,
// slices, maps, or strings, since those need serialization this codec
// doesn't do — exactly the "no automatic component serialization beyond
// plain fixed-size records" boundary the registry enforces.
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max int32
}

type PlayerController struct{}

type AI struct {
	State int32
}

type Tag struct {
	ID uint32
}

type DamageEvent struct {
	Attacker ecs.EntityID
	Amount   int32
}

type CollisionEvent struct {
	A, B ecs.EntityID
}

func newTestRegistry() *ecs.ComponentRegistry {
	r := ecs.NewComponentRegistry()
	ecs.Register[Position](r)
	ecs.Register[Velocity](r)
	ecs.Register[Health](r)
	ecs.Register[PlayerController](r)
	ecs.Register[AI](r)
	ecs.Register[Tag](r)
	ecs.RegisterOneFrame[DamageEvent](r)
	ecs.Register[CollisionEvent](r)
	return r
}

func newTestWorld() *ecs.World {
	return ecs.NewWorld(newTestRegistry())
}
