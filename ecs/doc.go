// Package ecs provides ECS adapters for reach's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges reach interaction
// events (hover, select, deselect, use) into a [Donburi] world as typed
// events. Subscribe to [InteractionEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(ecsWorld)
//	world.SetEventSink(store)
//
// Entities are matched through [reach.Node.EntityID], which [Link] sets from
// a donburi entity.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
