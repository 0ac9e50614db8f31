package ecs

import (
	"github.com/kilnpack/kiln"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ReloadEventType is the Donburi event type for kiln asset reload events.
// Subscribe to this in your ECS systems to refresh cached atlas entries
// after an import pass swaps a live atlas.
var ReloadEventType = events.NewEventType[kiln.ReloadEvent]()

type donburiNotifier struct {
	world donburi.World
}

// NewDonburiNotifier creates a ReloadNotifier backed by a Donburi world.
// Reload events are published to ReloadEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiNotifier(world donburi.World) kiln.ReloadNotifier {
	return &donburiNotifier{world: world}
}

func (n *donburiNotifier) NotifyReload(ev kiln.ReloadEvent) {
	ReloadEventType.Publish(n.world, ev)
}
