// Package event handles triggering of operations without direct dependency
package event

import (
	"context"
	"sync"

	"maji/local-app/internal/log"
)

// EventType represents the type of event
type EventType int

const (
	SessionStarted EventType = iota
	SessionEnded
	Navigated
	SurveySubmitted
	CatalogLoaded
	Notified
)

// String returns the name of the event type
func (t EventType) String() string {
	switch t {
	case SessionStarted:
		return "session_started"
	case SessionEnded:
		return "session_ended"
	case Navigated:
		return "navigated"
	case SurveySubmitted:
		return "survey_submitted"
	case CatalogLoaded:
		return "catalog_loaded"
	case Notified:
		return "notified"
	default:
		return "unknown"
	}
}

// Event represents an event with its type and associated data
type Event struct {
	Type EventType
	Data interface{}
}

// EventHandler is a function type for event handlers
type EventHandler func(Event)

// EventManager manages event subscriptions and publications
type EventManager struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
	pending     sync.WaitGroup
	logger      *log.Logger
}

// NewEventManager creates a new EventManager instance
func NewEventManager(logger *log.Logger) *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]EventHandler),
		logger:      logger,
	}
}

// Subscribe adds a new event handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.subscribers[eventType] = append(em.subscribers[eventType], handler)
}

// Publish sends an event to all subscribed handlers, each on its own goroutine
func (em *EventManager) Publish(event Event) {
	em.mu.RLock()
	defer em.mu.RUnlock()
	for _, handler := range em.subscribers[event.Type] {
		em.pending.Add(1)
		go func(h EventHandler) {
			defer em.pending.Done()
			defer func() {
				if r := recover(); r != nil {
					em.logger.Error(context.Background(), "Panic in event handler", log.Fields{
						"event": event.Type.String(),
						"panic": r,
					})
				}
			}()
			h(event)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned
func (em *EventManager) Wait() {
	em.pending.Wait()
}
