package ecs

import (
	"github.com/phanxgames/inkview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType carries gesture transitions through a donburi world.
var GestureEventType = events.NewEventType[inkview.GestureEvent]()

// worldStore queues gesture events into one world.
type worldStore struct {
	world donburi.World
}

// NewDonburiStore returns an inkview.EventStore that queues every gesture
// event on GestureEventType in world. Nothing is delivered until the world
// processes its events.
func NewDonburiStore(world donburi.World) inkview.EventStore {
	return worldStore{world: world}
}

func (s worldStore) EmitEvent(ev inkview.GestureEvent) {
	GestureEventType.Publish(s.world, ev)
}
