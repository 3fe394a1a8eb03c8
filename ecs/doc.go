// Package ecs lets game-style hosts observe the canvas from their ECS
// systems instead of registering callbacks on the controller.
//
// Every pointer session publishes a short stream of [inkview.GestureEvent]s:
// a began event on press, one decided event when the session turns into
// drawing or scrolling, scrolled events while the view pans, and ended or
// canceled when it finishes. Wheel scrolls and zooms arrive as single wheel
// events. Systems typically use the stream to hide tool palettes while the
// user scrolls, show a zoom indicator, or record analytics about how much
// of a session was spent writing.
//
// [NewDonburiStore] queues the events in a [Donburi] world; systems read
// them from [GestureEventType] when the world processes events, so handling
// happens on the ECS schedule rather than inside the pointer handler:
//
//	ctrl.SetEventStore(ecs.NewDonburiStore(world))
//	ecs.GestureEventType.Subscribe(world, onGesture)
//	// each tick
//	ecs.GestureEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
