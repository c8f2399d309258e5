package store

import "context"

// Subscribe returns a channel that first carries the current snapshot and
// then one snapshot per successful mutation. The channel holds at most one
// value: a slow reader skips straight to the newest snapshot. It is closed
// when ctx ends or the store closes.
func (s *Store) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	if s.started {
		ch <- s.current
	}
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.closing:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}()
	return ch
}

// offer replaces whatever is buffered in ch with snap. Callers hold s.mu,
// which makes the publisher the only sender.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}
