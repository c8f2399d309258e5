package store

import "context"

// Pending is the handle of a queued mutation. It resolves once the writer
// has applied (or rejected) the operation.
type Pending struct {
	done    chan struct{}
	removed []string
	err     error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func failed(err error) *Pending {
	p := newPending()
	p.resolve(nil, err)
	return p
}

func (p *Pending) resolve(removed []string, err error) {
	p.removed = removed
	p.err = err
	close(p.done)
}

// Done is closed when the operation has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the outcome. It is only meaningful after Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the operation finishes or ctx ends. For deletions it
// returns the ids that were removed. Abandoning the wait does not cancel
// the operation.
func (p *Pending) Wait(ctx context.Context) ([]string, error) {
	select {
	case <-p.done:
		return p.removed, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
