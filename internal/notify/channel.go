// Package notify holds the single current user-facing message and the shared
// loading flag.
package notify

import (
	"sync"
	"time"

	"maji/local-app/internal/event"
	"maji/local-app/internal/model"
)

// Subscriber receives the current notification, or nil when cleared.
type Subscriber func(n *model.Notification)

// Option configures a Channel
type Option func(*Channel)

// WithAutoDismiss clears every published notification after d unless it was
// cleared or replaced earlier. Zero disables it.
func WithAutoDismiss(d time.Duration) Option {
	return func(c *Channel) { c.dismissAfter = d }
}

// Channel is a single-slot broadcast of the current notification. A publish
// replaces whatever was there before; nothing is queued.
type Channel struct {
	mu           sync.Mutex
	current      *model.Notification
	generation   uint64
	timer        *time.Timer
	dismissAfter time.Duration

	subMu  sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn Subscriber
}

// NewChannel creates an empty Channel
func NewChannel(opts ...Option) *Channel {
	c := &Channel{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn and returns a function that removes it.
func (c *Channel) Subscribe(fn Subscriber) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Forward republishes every notification on em as a Notified event.
// Clearing is not forwarded.
func (c *Channel) Forward(em *event.EventManager) (unsubscribe func()) {
	return c.Subscribe(func(n *model.Notification) {
		if n != nil {
			em.Publish(event.Event{Type: event.Notified, Data: *n})
		}
	})
}

// Publish makes n the current notification and notifies every subscriber
// before returning.
func (c *Channel) Publish(n model.Notification) {
	c.set(&n)
}

// Success publishes a success notification
func (c *Channel) Success(message, title string) {
	c.Publish(model.Notification{Kind: model.KindSuccess, Message: message, Title: title})
}

// Error publishes an error notification
func (c *Channel) Error(message, title string) {
	c.Publish(model.Notification{Kind: model.KindError, Message: message, Title: title})
}

// Warning publishes a warning notification
func (c *Channel) Warning(message, title string) {
	c.Publish(model.Notification{Kind: model.KindWarning, Message: message, Title: title})
}

// Info publishes an informational notification
func (c *Channel) Info(message, title string) {
	c.Publish(model.Notification{Kind: model.KindInfo, Message: message, Title: title})
}

// Clear publishes the absent value.
func (c *Channel) Clear() {
	c.set(nil)
}

// Current returns the notification currently shown, if any.
func (c *Channel) Current() (*model.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, false
	}
	n := *c.current
	return &n, true
}

func (c *Channel) set(n *model.Notification) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.current = n
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if n != nil && c.dismissAfter > 0 {
		c.timer = time.AfterFunc(c.dismissAfter, func() { c.dismiss(gen) })
	}
	c.mu.Unlock()

	c.broadcast(n)
}

// dismiss clears the slot only if nothing was published since gen.
func (c *Channel) dismiss(gen uint64) {
	c.mu.Lock()
	if c.generation != gen || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.current = nil
	c.timer = nil
	c.mu.Unlock()

	c.broadcast(nil)
}

func (c *Channel) broadcast(n *model.Notification) {
	c.subMu.Lock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	for _, s := range subs {
		if n == nil {
			s.fn(nil)
			continue
		}
		// Each subscriber gets its own copy
		cp := *n
		s.fn(&cp)
	}
}
