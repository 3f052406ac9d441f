// Package events fans timeline changes out to subscribers and, optionally,
// to a persistent journal.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Collaborne/task-scheduler/internal/logging"
	"github.com/Collaborne/task-scheduler/internal/models"
)

// Errors for publisher operations.
var (
	ErrInvalidSubscriptionID = errors.New("subscription ID is required")
	ErrNilHandler            = errors.New("handler cannot be nil")
	ErrSubscriptionExists    = errors.New("subscription with this ID already exists")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
)

// Handler is invoked for each event matching a subscription.
type Handler func(event *models.Event)

// Repository persists published events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	EventTypes  []models.EventType
	EntityTypes []models.EntityType
	EntityID    string
}

// Matches reports whether event passes every non-empty criterion.
func (f Filter) Matches(event *models.Event) bool {
	if event == nil {
		return false
	}
	if len(f.EventTypes) > 0 && !containsType(f.EventTypes, event.Type) {
		return false
	}
	if len(f.EntityTypes) > 0 && !containsType(f.EntityTypes, event.EntityType) {
		return false
	}
	return f.EntityID == "" || f.EntityID == event.EntityID
}

func containsType[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Publisher publishes events and manages subscriptions.
type Publisher interface {
	Publish(ctx context.Context, event *models.Event)
	Subscribe(id string, filter Filter, handler Handler) error
	Unsubscribe(id string) error
	SubscriberCount() int
}

type subscription struct {
	filter  Filter
	handler Handler
}

// InMemoryPublisher dispatches synchronously in the caller's goroutine.
type InMemoryPublisher struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	repo          Repository
	logger        zerolog.Logger
	now           func() time.Time
}

// PublisherOption configures an InMemoryPublisher.
type PublisherOption func(*InMemoryPublisher)

// WithRepository journals every published event before dispatch.
func WithRepository(repo Repository) PublisherOption {
	return func(p *InMemoryPublisher) { p.repo = repo }
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) PublisherOption {
	return func(p *InMemoryPublisher) { p.logger = logger }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *InMemoryPublisher) { p.now = now }
}

// NewInMemoryPublisher creates a publisher with no subscribers.
func NewInMemoryPublisher(opts ...PublisherOption) *InMemoryPublisher {
	p := &InMemoryPublisher{
		subscriptions: make(map[string]*subscription),
		logger:        logging.Component("events"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish stamps event with an id and timestamp when missing, journals it
// when a repository is configured and hands it to matching subscribers.
// A journal failure is logged and does not stop delivery.
func (p *InMemoryPublisher) Publish(ctx context.Context, event *models.Event) {
	if event == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	if p.repo != nil {
		if err := p.repo.Create(ctx, event); err != nil {
			p.logger.Warn().Err(err).
				Str("event_id", event.ID).
				Str("type", string(event.Type)).
				Msg("failed to journal event")
		}
	}

	p.mu.RLock()
	handlers := make([]Handler, 0, len(p.subscriptions))
	for _, sub := range p.subscriptions {
		if sub.filter.Matches(event) {
			handlers = append(handlers, sub.handler)
		}
	}
	p.mu.RUnlock()

	// Handlers may subscribe or unsubscribe, so they run outside the lock.
	for _, handler := range handlers {
		handler(event)
	}
}

// Subscribe registers handler under id.
func (p *InMemoryPublisher) Subscribe(id string, filter Filter, handler Handler) error {
	if id == "" {
		return ErrInvalidSubscriptionID
	}
	if handler == nil {
		return ErrNilHandler
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.subscriptions[id]; exists {
		return ErrSubscriptionExists
	}
	p.subscriptions[id] = &subscription{filter: filter, handler: handler}
	return nil
}

// Unsubscribe removes the subscription registered under id.
func (p *InMemoryPublisher) Unsubscribe(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.subscriptions[id]; !exists {
		return ErrSubscriptionNotFound
	}
	delete(p.subscriptions, id)
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (p *InMemoryPublisher) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscriptions)
}

// Close drops every subscription.
func (p *InMemoryPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscriptions = make(map[string]*subscription)
}
