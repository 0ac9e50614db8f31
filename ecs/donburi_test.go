package ecs

import (
	"testing"

	"github.com/kilnpack/kiln"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiNotifier(t *testing.T) {
	world := donburi.NewWorld()
	n := NewDonburiNotifier(world)
	if n == nil {
		t.Fatal("NewDonburiNotifier returned nil")
	}
}

func TestDonburiNotifier_NotifyReload(t *testing.T) {
	world := donburi.NewWorld()
	n := NewDonburiNotifier(world)

	var received []kiln.ReloadEvent
	ReloadEventType.Subscribe(world, func(w donburi.World, e kiln.ReloadEvent) {
		received = append(received, e)
	})

	n.NotifyReload(kiln.ReloadEvent{
		Atlas: kiln.AtlasGameplay,
		Keys:  []string{"images/enemy", "images/hero"},
	})
	n.NotifyReload(kiln.ReloadEvent{Atlas: kiln.AtlasEditor})

	// Events are queued — process them.
	ReloadEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Atlas != kiln.AtlasGameplay || len(e0.Keys) != 2 {
		t.Errorf("event 0: %+v", e0)
	}
	if received[1].Atlas != kiln.AtlasEditor {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiNotifier_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	n := NewDonburiNotifier(world)

	var count1, count2 int
	ReloadEventType.Subscribe(world, func(w donburi.World, e kiln.ReloadEvent) {
		count1++
	})
	ReloadEventType.Subscribe(world, func(w donburi.World, e kiln.ReloadEvent) {
		count2++
	})

	n.NotifyReload(kiln.ReloadEvent{Atlas: kiln.AtlasGameplay})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
