package ecs

import (
	"github.com/phanxgames/spritepaint"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SheetEventType is the Donburi event type for spritepaint sheet events.
// Subscribe to this in your ECS systems to hear about ready, evicted, purged
// and failed sheets.
var SheetEventType = events.NewEventType[spritepaint.SheetEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Sheet events are published to SheetEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) spritepaint.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event spritepaint.SheetEvent) {
	SheetEventType.Publish(s.world, event)
}
