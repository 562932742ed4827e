// Package ecs provides ECS adapters for spritepaint's sheet event system.
//
// The primary adapter is [NewDonburiSink], which bridges sheet lifecycle
// events (ready, evicted, purged, failed) into a [Donburi] world as typed
// events. Subscribe to [SheetEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	painter.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
