package main

import (
	"math/rand"

	"github.com/axiomforge/archetype/ecs"
)

// spawnRandomEntity creates one entity carrying a random subset of the
// registered component types, approximating the kind of archetype churn
// a real game's spawn pipeline produces.
func spawnRandomEntity(w *ecs.World) ecs.EntityID {
	e := w.CreateEntity()
	_ = ecs.AddComponent(w, e, Position{X: rand.Float32() * 100, Y: rand.Float32() * 100})
	if rand.Intn(2) == 0 {
		_ = ecs.AddComponent(w, e, Velocity{DX: rand.Float32() - 0.5, DY: rand.Float32() - 0.5})
	}
	if rand.Intn(3) == 0 {
		_ = ecs.AddComponent(w, e, Health{Current: 100, Max: 100})
	}
	if rand.Intn(4) == 0 {
		_ = ecs.AddComponent(w, e, AI{State: int32(rand.Intn(3))})
	}
	return e
}

// movementSystem advances every entity carrying both Position and
// Velocity, exercising the query planner's steady-state chunk-iteration
// path every tick.
type movementSystem struct{}

func (movementSystem) Execute(frame *ecs.UpdateFrame) {
	q := ecs.WithoutT[Damage](ecs.WithT[Velocity](ecs.WithT[Position](ecs.NewQuery(frame.World))))
	posID := ecs.ComponentID[Position](frame.World)
	velID := ecs.ComponentID[Velocity](frame.World)
	for ch := range q.Chunks() {
		positions := ecs.Column[Position](ch, posID)
		velocities := ecs.Column[Velocity](ch, velID)
		for i := range positions {
			positions[i].X += velocities[i].DX * float32(frame.DeltaTime)
			positions[i].Y += velocities[i].DY * float32(frame.DeltaTime)
		}
	}
}

// aiDamageSystem randomly takes health from AI-controlled entities; one
// that drops to zero is deleted and a replacement spawned through
// Commands, producing buffered structural churn each tick.
type aiDamageSystem struct{}

func (aiDamageSystem) Execute(frame *ecs.UpdateFrame) {
	q := ecs.WithT[AI](ecs.WithT[Health](ecs.NewQuery(frame.World)))
	healthID := ecs.ComponentID[Health](frame.World)
	for ch := range q.Chunks() {
		healths := ecs.Column[Health](ch, healthID)
		for i := 0; i < ch.Count(); i++ {
			if rand.Intn(20) != 0 {
				continue
			}
			healths[i].Current -= 10
			if healths[i].Current <= 0 {
				frame.Commands.Delete(ch.Entity(i))
				frame.Commands.Spawn(Position{}, Health{Current: 100, Max: 100}, AI{})
			}
		}
	}
}

func registerSystems(s *ecs.Scheduler) {
	s.Register(ecs.Update, 0, movementSystem{})
	s.Register(ecs.Update, 10, aiDamageSystem{})
}
