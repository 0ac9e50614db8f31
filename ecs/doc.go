// Package ecs provides ECS adapters for kiln's asset reload events.
//
// The primary adapter is [NewDonburiNotifier], which bridges atlas swap
// notifications from the import pipeline into a [Donburi] world as typed
// events. Subscribe to [ReloadEventType] in your ECS systems to re-resolve
// cached atlas entries when a live atlas is replaced.
//
// Usage:
//
//	notifier := ecs.NewDonburiNotifier(world)
//	controller.SetNotifier(notifier)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
