package main

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"ghsearch/internal/domain"
	"ghsearch/internal/ui"
)

// stateForwarder hands search states to the UI loop. Push never blocks, so
// the bus dispatcher cannot end up waiting on a UI loop that is itself
// waiting on the bus. States pushed while a send is in progress collapse
// into the newest one.
type stateForwarder struct {
	mu      sync.Mutex
	pending *domain.SearchState
	wake    chan struct{}
	send    func(tea.Msg)
}

func newStateForwarder(send func(tea.Msg)) *stateForwarder {
	return &stateForwarder{
		wake: make(chan struct{}, 1),
		send: send,
	}
}

// Push records state as the next one to deliver
func (f *stateForwarder) Push(state domain.SearchState) {
	f.mu.Lock()
	f.pending = &state
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Run delivers pushed states until ctx is done
func (f *stateForwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.wake:
		}

		f.mu.Lock()
		state := f.pending
		f.pending = nil
		f.mu.Unlock()

		if state != nil {
			f.send(ui.StateMsg{State: *state})
		}
	}
}
