package utils

import (
	"sync"
)

// Event is the envelope fanned out to in-process subscribers (the websocket
// hub being the main one).
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Handler func(event Event)

// EventBus broadcasts board mutations inside one process. Publish never
// blocks: when the channel buffer is full the event is dropped instead of
// stalling the mutating caller.
type EventBus struct {
	subscribers map[string][]Handler
	events      chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Handler),
		events:      make(chan Event, 100),
	}
}

func (eb *EventBus) Publish(event string, data any) {
	e := Event{Event: event, Data: data}

	eb.mu.RLock()
	handlers := eb.subscribers[event]
	eb.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}

	select {
	case eb.events <- e:
	default:
	}
}

func (eb *EventBus) Subscribe(event string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[event] = append(eb.subscribers[event], handler)
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	return eb.events
}
