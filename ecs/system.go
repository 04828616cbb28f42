package ecs

// Phase is one of the four canonical points in a frame a System can run
// at. Systems within a phase run in ascending order value (see
// Scheduler.Register); equal order values run in registration order.
type Phase int

const (
	// PreUpdate runs first: input sampling, timer ticks, anything that
	// should be stable for the rest of the frame to read.
	PreUpdate Phase = iota
	// Update is the main simulation phase: gameplay logic, physics.
	Update
	// PostUpdate runs after Update: derived state, collision response,
	// anything that reacts to what Update just did.
	PostUpdate
	// Presentation runs last, after the frame's Commands have been
	// flushed and one-frame components/events cleared: rendering,
	// audio, anything that only reads final frame state.
	Presentation
)

// System is a unit of per-frame behavior. Implementations typically hold
// their own *Query fields, built once in a constructor against the
// World they'll run against, plus any persistent state.
type System interface {
	Execute(frame *UpdateFrame)
}
