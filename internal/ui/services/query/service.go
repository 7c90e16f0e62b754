// Package query owns the search text, paging and the displayed page of openings.
// Any change of text, page index or page size issues exactly one fetch.
package query

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"openingfinder/internal/auth"
	"openingfinder/internal/domain"
	"openingfinder/internal/eventbus"
)

// Service is the query controller
type Service struct {
	mu sync.Mutex

	ctx      context.Context
	searcher Searcher
	creds    auth.Credentials
	notifier Notifier
	bus      eventbus.EventBus
	log      zerolog.Logger
	policy   Policy

	query         domain.Query
	items         []domain.Opening
	totalElements int
	totalPages    int
	loaded        bool

	issued   uint64 // last sequence number handed out
	shown    uint64 // sequence number of the displayed result
	settled  uint64 // newest sequence number that completed or failed
	inFlight int

	wg conc.WaitGroup
}

// Option customises a Service
type Option func(*Service)

// WithBus publishes query and result events
func WithBus(bus eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l.With().Str("component", "query").Logger() }
}

// WithPolicy chooses how out-of-order completions are handled
func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithPageSize sets the initial page size; invalid values are ignored
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n >= 1 && n <= domain.MaxPageSize {
			s.query.PageSize = n
		}
	}
}

// WithText sets the initial search text
func WithText(text string) Option {
	return func(s *Service) { s.query.Text = text }
}

// NewService creates the controller and issues the initial fetch.
// ctx bounds every fetch the controller starts.
func NewService(ctx context.Context, searcher Searcher, creds auth.Credentials, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		ctx:      ctx,
		searcher: searcher,
		creds:    creds,
		notifier: notifier,
		log:      zerolog.Nop(),
		query:    domain.Query{PageSize: DefaultPageSize},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	seq, q := s.issueLocked()
	s.mu.Unlock()
	s.start(seq, q)

	return s
}

// SetText changes the search text. Empty text is a valid "match all" query.
func (s *Service) SetText(text string) {
	s.mu.Lock()
	if s.query.Text == text {
		s.mu.Unlock()
		return
	}
	s.query.Text = text
	seq, q := s.issueLocked()
	s.mu.Unlock()
	s.start(seq, q)
}

// SetPage changes the page using the 1-based number shown by a paginator.
// It is the entry point for 1-based page controls; the TUI keys work on
// 0-based indexes and call SetPageIndex.
func (s *Service) SetPage(displayPage int) {
	if displayPage < 1 {
		displayPage = 1
	}
	_ = s.SetPageIndex(displayPage - 1)
}

// SetPageIndex changes the 0-based page index
func (s *Service) SetPageIndex(index int) error {
	s.mu.Lock()
	next := s.query
	next.PageIndex = index
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.query.PageIndex == index {
		s.mu.Unlock()
		return nil
	}
	s.query = next
	seq, q := s.issueLocked()
	s.mu.Unlock()
	s.start(seq, q)
	return nil
}

// SetPageSize changes the number of openings per page. The page index is kept;
// if it falls outside the new page count it is clamped once the result arrives.
func (s *Service) SetPageSize(n int) error {
	s.mu.Lock()
	next := s.query
	next.PageSize = n
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.query.PageSize == n {
		s.mu.Unlock()
		return nil
	}
	s.query = next
	seq, q := s.issueLocked()
	s.mu.Unlock()
	s.start(seq, q)
	return nil
}

// Refresh re-issues the current query
func (s *Service) Refresh() {
	s.mu.Lock()
	seq, q := s.issueLocked()
	s.mu.Unlock()
	s.start(seq, q)
}

// Snapshot returns a copy of the current state
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Opening, len(s.items))
	copy(items, s.items)
	return State{
		Query:         s.query,
		Items:         items,
		TotalElements: s.totalElements,
		TotalPages:    s.totalPages,
		Loading:       s.inFlight > 0,
		Loaded:        s.loaded,
		Seq:           s.shown,
	}
}

// Wait blocks until every fetch started so far has completed
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) issueLocked() (uint64, domain.Query) {
	s.issued++
	s.inFlight++
	return s.issued, s.query
}

func (s *Service) start(seq uint64, q domain.Query) {
	s.log.Debug().Uint64("seq", seq).Str("text", q.Text).Int("page", q.PageIndex).Int("size", q.PageSize).Msg("fetching openings")
	s.publish(domain.QueryChangedEvent{Query: q, Seq: seq})

	s.wg.Go(func() {
		page, err := s.searcher.Search(s.ctx, s.creds.Token, q)
		if err != nil {
			s.fail(seq, q, err)
			return
		}
		s.complete(seq, q, page)
	})
}

func (s *Service) complete(seq uint64, q domain.Query, page domain.Page[domain.Opening]) {
	s.mu.Lock()
	s.inFlight--

	if s.policy == DiscardStale && seq < s.settled {
		settled := s.settled
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Uint64("settled", settled).Msg("discarding stale result")
		return
	}

	items := page.Items
	if items == nil {
		items = []domain.Opening{}
	}
	s.items = items
	s.totalElements = page.TotalElements
	s.totalPages = page.TotalPages(q.PageSize)
	s.shown = seq
	s.settled = max(s.settled, seq)
	s.loaded = true

	// keep pageIndex < totalPages once the current query's page count is known
	var (
		clampSeq uint64
		clampQ   domain.Query
		clamped  bool
	)
	if q == s.query && s.totalPages > 0 && s.query.PageIndex >= s.totalPages {
		s.query.PageIndex = s.totalPages - 1
		clampSeq, clampQ = s.issueLocked()
		clamped = true
	}
	updated := domain.ResultsUpdatedEvent{Query: q, Seq: seq, Count: len(items), TotalPages: s.totalPages}
	s.mu.Unlock()

	s.publish(updated)
	if clamped {
		s.log.Debug().Int("page", clampQ.PageIndex).Msg("page index beyond last page, clamping")
		s.start(clampSeq, clampQ)
	}
}

func (s *Service) fail(seq uint64, q domain.Query, err error) {
	s.mu.Lock()
	s.inFlight--
	superseded := s.policy == DiscardStale && seq < s.issued
	if s.policy == DiscardStale {
		// older fetches still in flight must not replace what the failure kept on screen
		s.settled = max(s.settled, seq)
	}
	s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	if superseded {
		s.log.Debug().Err(err).Uint64("seq", seq).Msg("ignoring failure of superseded search")
		return
	}

	s.log.Warn().Err(err).Uint64("seq", seq).Msg("search failed")
	s.notifier.Show(domain.MsgNetworkError, domain.SeverityError)
	s.publish(domain.SearchFailedEvent{Query: q, Seq: seq, Err: err})
}

func (s *Service) publish(e domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
