package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openingfinder/internal/domain"
	"openingfinder/internal/eventbus"
)

// fakeClock fires callbacks synchronously from Advance
type fakeClock struct {
	mu         sync.Mutex
	now        time.Time
	timers     []*fakeTimer
	ignoreStop bool // simulate a timer that already fired when Stop raced it
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.clock.ignoreStop || t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !c.now.Before(t.deadline) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func TestShowReplacesImmediately(t *testing.T) {
	ch := NewChannel(5*time.Second, WithClock(newFakeClock()))

	first := ch.Show("first", domain.SeveritySuccess)
	second := ch.Show("second", domain.SeverityError)

	cur := ch.Current()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, "second", cur.Message)
	assert.Equal(t, domain.SeverityError, cur.Severity)
	assert.True(t, cur.Visible)
}

func TestAutoHideAfterTimeout(t *testing.T) {
	clock := newFakeClock()
	ch := NewChannel(5*time.Second, WithClock(clock))

	ch.Show("saved", domain.SeveritySuccess)

	clock.Advance(4999 * time.Millisecond)
	require.True(t, ch.Current().Visible)

	clock.Advance(time.Millisecond)
	require.False(t, ch.Current().Visible)
	assert.Equal(t, "saved", ch.Current().Message, "message text survives hiding")
}

func TestAutoHideCountsFromLatestShow(t *testing.T) {
	clock := newFakeClock()
	ch := NewChannel(5*time.Second, WithClock(clock))

	ch.Show("first", domain.SeveritySuccess)
	clock.Advance(3 * time.Second)
	ch.Show("second", domain.SeveritySuccess)

	clock.Advance(2 * time.Second) // first's deadline
	require.True(t, ch.Current().Visible)
	require.Equal(t, "second", ch.Current().Message)

	clock.Advance(2999 * time.Millisecond)
	require.True(t, ch.Current().Visible)

	clock.Advance(time.Millisecond)
	require.False(t, ch.Current().Visible)
}

func TestStaleTimerCannotHideNewerMessage(t *testing.T) {
	clock := newFakeClock()
	clock.ignoreStop = true
	ch := NewChannel(5*time.Second, WithClock(clock))

	ch.Show("first", domain.SeveritySuccess)
	clock.Advance(3 * time.Second)
	ch.Show("second", domain.SeverityError)

	clock.Advance(2 * time.Second) // the first timer fires despite Stop
	require.True(t, ch.Current().Visible)
	require.Equal(t, "second", ch.Current().Message)

	clock.Advance(3 * time.Second)
	require.False(t, ch.Current().Visible)
}

func TestDismiss(t *testing.T) {
	clock := newFakeClock()
	ch := NewChannel(5*time.Second, WithClock(clock))

	ch.Dismiss() // nothing shown yet
	require.False(t, ch.Current().Visible)

	ch.Show("oops", domain.SeverityError)
	ch.Dismiss()
	require.False(t, ch.Current().Visible)

	clock.Advance(10 * time.Second)
	require.False(t, ch.Current().Visible)
}

func TestChannelPublishesEvents(t *testing.T) {
	bus := eventbus.New(zerolog.Nop())
	defer bus.Close()

	events := make(chan domain.DomainEvent, 4)
	bus.Subscribe(eventbus.EventNotificationShown, func(e domain.DomainEvent) { events <- e })
	bus.Subscribe(eventbus.EventNotificationHidden, func(e domain.DomainEvent) { events <- e })

	clock := newFakeClock()
	ch := NewChannel(time.Second, WithClock(clock), WithBus(bus))

	n := ch.Show("hello", domain.SeveritySuccess)
	clock.Advance(time.Second)

	shown := (<-events).(domain.NotificationShownEvent)
	assert.Equal(t, n, shown.Notification)
	hidden := (<-events).(domain.NotificationHiddenEvent)
	assert.Equal(t, domain.NotificationHiddenEvent{ID: n.ID, Manual: false}, hidden)
}

func TestRealClockHides(t *testing.T) {
	ch := NewChannel(20 * time.Millisecond)
	ch.Show("tick", domain.SeveritySuccess)
	require.Eventually(t, func() bool { return !ch.Current().Visible }, time.Second, 5*time.Millisecond)
}
