// Package search holds the query controller: it owns the current query and
// search state, calls the repository searcher and publishes every state
// replacement on the event bus.
package search

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"ghsearch/internal/domain"
	"ghsearch/internal/eventbus"
)

// Searcher performs one repository search
type Searcher interface {
	SearchRepositories(ctx context.Context, query string) ([]domain.Repository, error)
}

// Service handles search functionality
type Service struct {
	mu     sync.Mutex
	state  domain.SearchState
	query  string
	seq     uint64 // bumped by every SetQuery; completions for older values are dropped
	version uint64 // bumped by every state replacement
	closed  bool

	client Searcher
	bus    eventbus.EventBus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a controller with an empty state. Requests run under
// ctx and are cancelled by Close.
func NewService(ctx context.Context, client Searcher, bus eventbus.EventBus) *Service {
	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		client: client,
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetQuery records a new query. A blank query clears the state without a
// network call; anything else starts a search whose outcome replaces the
// state unless a newer query has been set in the meantime.
func (s *Service) SetQuery(text string) {
	blank := domain.IsBlankQuery(text)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = text
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.bus.Publish(eventbus.QueryChangedEvent{Query: text, Blank: blank})

	if blank {
		s.clearSearch(seq)
		return
	}

	s.startSearch(text, seq)
}

// Query returns the last recorded query
func (s *Service) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// State returns a snapshot of the current search state
func (s *Service) State() domain.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for state replacements in replacement order. A
// replacement that reaches the bus after a newer one is skipped, so the last
// state fn sees is always the current one. Returns an unsubscribe function.
func (s *Service) Subscribe(fn func(domain.SearchState)) func() {
	var last uint64 // only touched by the bus dispatcher
	return s.bus.Subscribe(eventbus.EventStateChanged, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.StateChangedEvent)
		if !ok || event.Version <= last {
			return
		}
		last = event.Version
		fn(event.State)
	})
}

// Close cancels outstanding requests and waits for them to finish.
// Their outcomes are discarded and later SetQuery calls are ignored.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.seq++
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// Internal methods

func (s *Service) clearSearch(seq uint64) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	changed := s.replaceStateLocked(domain.SearchState{})
	s.mu.Unlock()

	s.bus.Publish(changed)
}

func (s *Service) startSearch(query string, seq uint64) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	// Previous results stay visible while loading
	changed := s.replaceStateLocked(domain.SearchState{
		Results:   s.state.Results,
		IsLoading: true,
	})
	s.wg.Add(1)
	s.mu.Unlock()

	s.bus.Publish(changed)
	s.bus.Publish(eventbus.SearchStartedEvent{Query: query, Seq: seq})
	logrus.WithFields(logrus.Fields{"query": query, "seq": seq}).Debug("search: started")

	go func() {
		defer s.wg.Done()
		repos, err := s.client.SearchRepositories(s.ctx, query)
		s.finishSearch(query, seq, repos, err)
	}()
}

func (s *Service) finishSearch(query string, seq uint64, repos []domain.Repository, err error) {
	log := logrus.WithFields(logrus.Fields{"query": query, "seq": seq})

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		log.Debug("search: discarding stale result")
		s.bus.Publish(eventbus.SearchDiscardedEvent{Query: query, Seq: seq})
		return
	}

	if err != nil {
		changed := s.replaceStateLocked(domain.SearchState{
			Results: s.state.Results,
			Error:   errorMessage(err),
		})
		s.mu.Unlock()

		s.bus.Publish(changed)
		log.WithError(err).Warnf("search: failed (%T)", err)
		s.bus.Publish(eventbus.SearchFailedEvent{Query: query, Seq: seq, Err: err})
		return
	}

	if repos == nil {
		repos = []domain.Repository{}
	}
	changed := s.replaceStateLocked(domain.SearchState{Results: repos})
	s.mu.Unlock()

	s.bus.Publish(changed)

	log.WithField("count", len(repos)).Info("search: completed")
	s.bus.Publish(eventbus.SearchCompletedEvent{Query: query, Seq: seq, ResultCount: len(repos)})
}

// replaceStateLocked replaces the state and returns the event announcing it.
// The caller publishes after releasing s.mu: Publish may block, and
// subscribers are free to call back into the service.
func (s *Service) replaceStateLocked(state domain.SearchState) eventbus.StateChangedEvent {
	s.state = state
	s.version++
	return eventbus.StateChangedEvent{State: state.Clone(), Version: s.version}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error occurred"
}
