package events

import (
	"sync"
)

// CallbackEvent is a type-safe pub/sub primitive: listeners register a
// callback, publishers call Notify. With replayLastOnListen set the most
// recent Notify value is replayed to each new listener, so late
// subscribers still observe the current state.
type CallbackEvent[T any] struct {
	mu                 sync.RWMutex
	listeners          map[uint64]func(T)
	nextID             uint64
	replayLastOnListen bool
	lastEvent          *T
	hasNotified        bool
}

// NewCallbackEvent creates a new CallbackEvent instance
func NewCallbackEvent[T any](replayLastOnListen bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{
		listeners:          make(map[uint64]func(T)),
		replayLastOnListen: replayLastOnListen,
	}
}

// Listen registers a callback invoked on every Notify and returns a
// deregistration function. If replay is enabled and Notify has fired at
// least once, the callback is invoked immediately with the last value.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = callback
	var replay *T
	if e.replayLastOnListen && e.hasNotified && e.lastEvent != nil {
		replay = new(T)
		*replay = *e.lastEvent
	}
	e.mu.Unlock()

	// Replay outside the lock so the callback may itself touch the event
	if replay != nil {
		callback(*replay)
	}

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Notify calls every registered callback with value. Thread-safe;
// callbacks run outside the lock.
func (e *CallbackEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLastOnListen {
		if e.lastEvent == nil {
			e.lastEvent = new(T)
		}
		*e.lastEvent = value
		e.hasNotified = true
	}
	listenersCopy := make(map[uint64]func(T), len(e.listeners))
	for id, callback := range e.listeners {
		listenersCopy[id] = callback
	}
	e.mu.Unlock()

	for _, callback := range listenersCopy {
		callback(value)
	}
}

// ListenerCount returns the current number of registered listeners
func (e *CallbackEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
