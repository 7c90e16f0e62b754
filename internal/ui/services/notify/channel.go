// Package notify implements the single-slot toast notification channel.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"openingfinder/internal/domain"
	"openingfinder/internal/eventbus"
)

// Timer is the part of *time.Timer the channel needs
type Timer interface {
	Stop() bool
}

// Clock schedules the auto-hide callback
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Channel holds at most one visible notification. A newer Show replaces the
// current message immediately and restarts the auto-hide timer; a timer only
// ever hides the notification it was started for.
type Channel struct {
	mu      sync.Mutex
	current domain.Notification
	timer   Timer
	timeout time.Duration
	clock   Clock
	bus     eventbus.EventBus
}

// Option customises a Channel
type Option func(*Channel)

// WithClock replaces the wall clock, mostly for tests
func WithClock(c Clock) Option {
	return func(ch *Channel) { ch.clock = c }
}

// WithBus publishes shown/hidden events
func WithBus(bus eventbus.EventBus) Option {
	return func(ch *Channel) { ch.bus = bus }
}

// NewChannel creates a channel whose notifications hide after timeout
func NewChannel(timeout time.Duration, opts ...Option) *Channel {
	ch := &Channel{timeout: timeout, clock: realClock{}}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Show displays message, pre-empting whatever is visible
func (c *Channel) Show(message string, severity domain.Severity) domain.Notification {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	n := domain.Notification{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
		Visible:  true,
		ShownAt:  c.clock.Now(),
	}
	c.current = n
	id := n.ID
	c.timer = c.clock.AfterFunc(c.timeout, func() { c.hide(id, false) })
	c.mu.Unlock()

	c.publish(domain.NotificationShownEvent{Notification: n})
	return n
}

// Dismiss hides the current notification immediately
func (c *Channel) Dismiss() {
	c.mu.Lock()
	id := c.current.ID
	c.mu.Unlock()
	if id != "" {
		c.hide(id, true)
	}
}

// Current returns a copy of the slot
func (c *Channel) Current() domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// hide clears the slot only if it still holds notification id
func (c *Channel) hide(id string, manual bool) {
	c.mu.Lock()
	if c.current.ID != id || !c.current.Visible {
		c.mu.Unlock()
		return
	}
	c.current.Visible = false
	if manual && c.timer != nil {
		c.timer.Stop()
	}
	c.timer = nil
	c.mu.Unlock()

	c.publish(domain.NotificationHiddenEvent{ID: id, Manual: manual})
}

func (c *Channel) publish(e domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
