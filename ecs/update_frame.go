package ecs

// UpdateFrame is passed to every System.Execute call for one tick. It
// carries the frame's delta time, the World being simulated, and a
// shared Commands buffer every system in the frame defers structural
// mutations into.
type UpdateFrame struct {
	DeltaTime float64
	World     *World
	Commands  *Commands
	Phase     Phase
}

func newUpdateFrame(dt float64, world *World) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		World:     world,
		Commands:  NewCommands(),
	}
}
