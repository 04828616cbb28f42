package ecs

import "reflect"

// Commands buffers structural mutations (spawn, destroy, add/remove
// component) so systems can request them mid-frame without migrating
// archetypes while a Query is being iterated. A Scheduler flushes its
// frame's Commands once per tick, after PostUpdate and before
// Presentation; commands queued during Presentation are discarded with
// the frame.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityID
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityID
	component any
}

type removeComponentCommand struct {
	entity EntityID
	typ    reflect.Type
}

// Defer queues an arbitrary function to run at flush time, after every
// other buffered operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues creation of a new entity carrying the given component
// values (each must be of a registered type).
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues destruction of entity.
func (c *Commands) Delete(entity EntityID) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues attaching component to entity.
func (c *Commands) AddComponent(entity EntityID, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues detaching the component of type typ from
// entity.
func (c *Commands) RemoveComponent(entity EntityID, typ reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, typ: typ})
}

// Flush applies every buffered operation to world, in the order
// spawns/removes/adds/deletes/defers*, and resets the buffer. Because
// World uses generational handles, a structural mutation never changes
// the handle a caller already holds — there is no migration-chain to
// resolve the way an archetype-embedded id would require.
//
// * deletes run before defers but after adds/removes, so a deferred
// callback always observes the frame's other mutations already applied.
func (c *Commands) Flush(world *World) {
	for _, cmd := range c.spawns {
		e := world.CreateEntity()
		for _, comp := range cmd.components {
			world.addComponentValue(e, comp)
		}
	}

	for _, cmd := range c.removes {
		world.removeComponentByType(cmd.entity, cmd.typ)
	}

	for _, cmd := range c.adds {
		world.addComponentValue(cmd.entity, cmd.component)
	}

	for _, e := range c.deletes {
		world.DestroyEntity(e)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
