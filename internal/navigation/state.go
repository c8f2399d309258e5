// Package navigation holds which parent the presentation is looking at.
package navigation

import (
	"context"
	"sync"
)

// State is the current parent id; nil means the root level. There is no
// history: every move is an absolute set.
type State struct {
	mu          sync.Mutex
	current     *string
	subscribers map[uint64]chan *string
	nextSub     uint64
}

func New() *State {
	return &State{subscribers: make(map[uint64]chan *string)}
}

// NavigateTo makes id the current parent. A nil id is the root level.
func (s *State) NavigateTo(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if same(s.current, id) {
		return
	}
	s.current = clone(id)
	for _, ch := range s.subscribers {
		offer(ch, clone(s.current))
	}
}

func (s *State) NavigateToRoot() {
	s.NavigateTo(nil)
}

// Current returns a copy of the current parent id.
func (s *State) Current() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

// Subscribe delivers the current parent, then every change. Only the
// latest unread value is kept. The channel closes when ctx ends.
func (s *State) Subscribe(ctx context.Context) <-chan *string {
	ch := make(chan *string, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	ch <- clone(s.current)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
		close(ch)
	}()
	return ch
}

func offer(ch chan *string, v *string) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}

func same(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clone(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
