// Package action dispatches "apply for opening" requests and reports the
// outcome through the notification channel.
package action

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"openingfinder/internal/api"
	"openingfinder/internal/auth"
	"openingfinder/internal/domain"
	"openingfinder/internal/eventbus"
	"openingfinder/internal/logic"
)

// Applier performs the remote apply call
type Applier interface {
	ApplyForOpening(ctx context.Context, openingID, userID int64, token string) error
}

// Notifier surfaces user-facing messages
type Notifier interface {
	Show(message string, severity domain.Severity) domain.Notification
}

// Result is the outcome of one apply call
type Result struct {
	OK          bool
	UserMessage string // the text shown to the user
	Err         error
}

// Service is the action dispatcher. Every call is independent: there is no
// retry and no deduplication of repeated applies.
type Service struct {
	applier  Applier
	creds    auth.Credentials
	notifier Notifier
	applied  logic.AppliedStore
	bus      eventbus.EventBus
	log      zerolog.Logger
	now      func() time.Time
}

// Option customises a Service
type Option func(*Service)

// WithBus publishes apply events
func WithBus(bus eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l.With().Str("component", "action").Logger() }
}

// WithAppliedStore records successful applications
func WithAppliedStore(store logic.AppliedStore) Option {
	return func(s *Service) { s.applied = store }
}

// WithNow replaces the clock used for applied timestamps
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an action dispatcher acting with creds
func NewService(applier Applier, creds auth.Credentials, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		applier:  applier,
		creds:    creds,
		notifier: notifier,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID returns the id applications are made for
func (s *Service) UserID() int64 {
	return s.creds.UserID
}

// Apply applies userID to openingID and shows exactly one notification
func (s *Service) Apply(ctx context.Context, openingID, userID int64) Result {
	req := domain.ActionRequest{OpeningID: openingID, UserID: userID, AuthToken: s.creds.Token}
	s.log.Info().Int64("opening", req.OpeningID).Int64("user", req.UserID).Msg("applying for opening")

	err := s.applier.ApplyForOpening(ctx, req.OpeningID, req.UserID, req.AuthToken)
	if err == nil {
		if s.applied != nil {
			s.applied.MarkApplied(openingID, s.now())
		}
		s.notifier.Show(domain.MsgApplySucceeded, domain.SeveritySuccess)
		s.publish(domain.ApplySucceededEvent{OpeningID: openingID, UserID: userID})
		return Result{OK: true, UserMessage: domain.MsgApplySucceeded}
	}

	msg, ok := api.UserMessage(err)
	if !ok {
		msg = domain.MsgNetworkError
	}
	s.log.Warn().Err(err).Int64("opening", openingID).Msg("apply failed")
	s.notifier.Show(msg, domain.SeverityError)
	s.publish(domain.ApplyFailedEvent{OpeningID: openingID, UserID: userID, Message: msg, Err: err})
	return Result{UserMessage: msg, Err: err}
}

func (s *Service) publish(e domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
