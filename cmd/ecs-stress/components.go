package main

import "github.com/axiomforge/archetype/ecs"

// A small, fixed component set stands in for the code generator the
// upstream tool drives from a config file — this binary has no
// generation step, so the stress load is a hand-picked mix instead of
// one sized by flag.
type Position struct{ X, Y float32 }
type Velocity struct{ DX, DY float32 }
type Health struct{ Current, Max int32 }
type Target struct{ EntityX, EntityY float32 }
type AI struct{ State int32 }
type Damage struct{ Amount int32 }

func registerComponents(reg *ecs.ComponentRegistry) {
	ecs.Register[Position](reg)
	ecs.Register[Velocity](reg)
	ecs.Register[Health](reg)
	ecs.Register[Target](reg)
	ecs.Register[AI](reg)
	ecs.RegisterOneFrame[Damage](reg)
}
