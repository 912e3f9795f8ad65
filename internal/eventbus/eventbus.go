package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"ghsearch/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventQueryChanged     = domain.EventQueryChanged
	EventSearchStarted    = domain.EventSearchStarted
	EventSearchCompleted  = domain.EventSearchCompleted
	EventSearchFailed     = domain.EventSearchFailed
	EventSearchDiscarded  = domain.EventSearchDiscarded
	EventStateChanged     = domain.EventStateChanged
	EventThemeChanged     = domain.EventThemeChanged
	EventConfigLoaded     = domain.EventConfigLoaded
	EventConfigSaved      = domain.EventConfigSaved
	EventRepositoryOpened = domain.EventRepositoryOpened
)

// Re-export domain event types
type QueryChangedEvent = domain.QueryChangedEvent
type SearchStartedEvent = domain.SearchStartedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type SearchFailedEvent = domain.SearchFailedEvent
type SearchDiscardedEvent = domain.SearchDiscardedEvent
type StateChangedEvent = domain.StateChangedEvent
type ThemeChangedEvent = domain.ThemeChangedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type RepositoryOpenedEvent = domain.RepositoryOpenedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus.
// Events are delivered by a single dispatcher goroutine in publish order.
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. It blocks while the queue
// is full and drops the event only once the bus is closed.
func (b *bus) Publish(event DomainEvent) {
	switch event.Type() {
	case EventStateChanged:
		// too frequent for the log
	default:
		logrus.WithField("event", event.Type()).Debug("eventbus: publishing")
	}

	select {
	case <-b.quit:
		logrus.WithField("event", event.Type()).Debug("eventbus: closed, dropping event")
		return
	default:
	}

	select {
	case b.eventChan <- event:
	case <-b.quit:
		logrus.WithField("event", event.Type()).Debug("eventbus: closed, dropping event")
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Close stops the dispatcher after delivering the events already queued
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			// Drain what was queued before Close
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event DomainEvent) {
	// Copy so the lock is not held while handlers run
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		b.call(s.handler, event)
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"event": event.Type(),
				"panic": r,
			}).Errorf("eventbus: handler panic\n%s", debug.Stack())
		}
	}()
	h(event)
}
