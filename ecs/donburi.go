// Package ecs provides ECS adapters for reach.
package ecs

import (
	"github.com/phanxgames/reach"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for reach interaction events.
// Subscribe to this in your ECS systems to receive hover, select and use
// events.
var InteractionEventType = events.NewEventType[reach.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) reach.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event reach.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Link records entity's id on node so events about the node's interactable
// carry it as EntityID.
func Link(node *reach.Node, entity donburi.Entity) {
	node.EntityID = uint32(entity.Id())
}
