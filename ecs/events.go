package ecs

import (
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventSpawn      = "spawn"
	EventDespawn    = "despawn"
	EventInputClaim = "input_claim"
)

// SpawnEvent is pushed after an Instance is created.
type SpawnEvent struct {
	Entity Entity
	Model  string
	Body   physics.Handle
}

// DespawnEvent is pushed after an Instance is tombstoned.
type DespawnEvent struct {
	Entity Entity
	Model  string
}

// InputClaimEvent records a behavior reporting an input event as handled.
// Claims never stop delivery to other behaviors.
type InputClaimEvent struct {
	Entity Entity
	Input  input.Event
}

// maxQueuedEvents bounds the queue for hosts that never drain it.
const maxQueuedEvents = 4096

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event, dropping the oldest one when the queue is full.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	if len(q.items) >= maxQueuedEvents {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
