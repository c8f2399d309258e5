package projection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/alexanderramin/goaltree/internal/store"
	"github.com/alexanderramin/goaltree/internal/tree"
)

// Source is the snapshot stream a Pipeline consumes; *store.Store
// satisfies it.
type Source interface {
	Subscribe(ctx context.Context) <-chan store.Snapshot
}

// Update is what a Pipeline publishes. View is the last good view; Err is
// set while the most recent snapshot could not be derived. Version is the
// snapshot version that produced this update, good or not.
type Update struct {
	View    *View
	Err     error
	Version uint64
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger routes integrity faults to logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline re-derives a View for every snapshot and fans the result out.
type Pipeline struct {
	src    Source
	logger *slog.Logger

	mu          sync.Mutex
	last        Update
	subscribers map[uint64]chan Update
	nextSub     uint64
	closed      bool
}

func NewPipeline(src Source, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		src:         src,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		last:        Update{View: emptyView()},
		subscribers: make(map[uint64]chan Update),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run consumes snapshots until ctx ends or the source closes. A snapshot
// whose links loop does not stop the stream: the previous good view stays
// published alongside the fault.
func (p *Pipeline) Run(ctx context.Context) error {
	defer p.closeSubscribers()
	snaps := p.src.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			p.apply(ctx, snap)
		}
	}
}

func (p *Pipeline) apply(ctx context.Context, snap store.Snapshot) {
	view, err := Derive(snap)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		if !errors.Is(err, tree.ErrGraphIntegrity) {
			p.logger.ErrorContext(ctx, "projection_failed", "version", snap.Version, "error", err.Error())
		} else {
			p.logger.WarnContext(ctx, "tree_integrity_fault", "version", snap.Version, "error", err.Error())
		}
		p.last = Update{View: p.last.View, Err: err, Version: snap.Version}
	} else {
		p.last = Update{View: view, Version: snap.Version}
	}
	for _, ch := range p.subscribers {
		offer(ch, p.last)
	}
}

// Current returns the last good view and the fault of the latest
// snapshot, if any.
func (p *Pipeline) Current() (*View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last.View, p.last.Err
}

// Subscribe delivers the latest Update immediately, then every new one.
// Like the store, the channel buffers only the newest value.
func (p *Pipeline) Subscribe(ctx context.Context) <-chan Update {
	ch := make(chan Update, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		close(ch)
		return ch
	}
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = ch
	ch <- p.last
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		defer p.mu.Unlock()
		if sub, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(sub)
		}
	}()
	return ch
}

// WaitVersion blocks until a snapshot at or after version has been
// processed, and returns the resulting update.
func (p *Pipeline) WaitVersion(ctx context.Context, version uint64) (Update, error) {
	if err := ctx.Err(); err != nil {
		return Update{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for u := range p.Subscribe(ctx) {
		if u.Version >= version {
			return u, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return Update{}, err
	}
	return Update{}, store.ErrClosed
}

func (p *Pipeline) closeSubscribers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for id, ch := range p.subscribers {
		close(ch)
		delete(p.subscribers, id)
	}
}

func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
