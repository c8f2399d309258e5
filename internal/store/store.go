package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/alexanderramin/goaltree/internal/tree"
)

// Snapshot is the whole node collection at one instant, ordered by
// creation time. Snapshots are shared between subscribers and must be
// treated as read-only.
type Snapshot struct {
	Version uint64
	Nodes   []domain.Node
}

type operation struct {
	name    string
	apply   func(ctx context.Context) ([]string, error)
	pending *Pending
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store serializes mutations against a NodeRepo and publishes snapshots.
type Store struct {
	repo   repository.NodeRepo
	logger *slog.Logger

	mu          sync.Mutex
	queue       []operation
	wake        chan struct{}
	current     Snapshot
	subscribers map[uint64]chan Snapshot
	nextSub     uint64
	started     bool
	closed      bool

	cancel       context.CancelFunc
	stopped      chan struct{}
	closing      chan struct{}
	shutdownOnce sync.Once
}

// New creates a store over repo. Call Start before expecting queued
// mutations to be applied.
func New(repo repository.NodeRepo, opts ...Option) *Store {
	s := &Store{
		repo:        repo,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		wake:        make(chan struct{}, 1),
		subscribers: make(map[uint64]chan Snapshot),
		stopped:     make(chan struct{}),
		closing:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the initial snapshot and launches the writer goroutine.
// The writer stops when ctx ends or Close is called.
func (s *Store) Start(ctx context.Context) error {
	nodes, err := s.repo.ListAll(ctx)
	if err != nil {
		return storageErr("loading nodes", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return fmt.Errorf("node store already started")
	}
	s.started = true
	s.current = Snapshot{Version: 1, Nodes: nodes}
	for _, ch := range s.subscribers {
		offer(ch, s.current)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(runCtx)
	return nil
}

// Close stops the writer, fails every queued operation with ErrClosed and
// closes all subscription channels. It waits for the in-flight operation.
func (s *Store) Close() {
	s.mu.Lock()
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if started {
		cancel()
		<-s.stopped
		return
	}
	s.shutdown()
}

// shutdown runs once, either when the writer exits or on Close of a store
// that never started.
func (s *Store) shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		close(s.closing)
		for _, op := range s.queue {
			op.pending.resolve(nil, ErrClosed)
		}
		s.queue = nil
		for id, ch := range s.subscribers {
			close(ch)
			delete(s.subscribers, id)
		}
	})
}

// Current returns the latest published snapshot.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// GetByID reads one node straight from the backend.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("getting node", err)
	}
	return n, nil
}

// InsertOrReplace queues an insert of n, replacing any node with the same
// id. A parent that would close a cycle is rejected with
// tree.ErrGraphIntegrity.
func (s *Store) InsertOrReplace(n domain.Node) *Pending {
	n = n.Clone()
	return s.submit("insert", func(ctx context.Context) ([]string, error) {
		if err := s.guardParent(ctx, n); err != nil {
			return nil, err
		}
		return nil, storageErr("inserting node", s.repo.Upsert(ctx, &n))
	})
}

// Update queues a rewrite of an existing node. A missing node fails with
// repository.ErrNotFound.
func (s *Store) Update(n domain.Node) *Pending {
	n = n.Clone()
	return s.submit("update", func(ctx context.Context) ([]string, error) {
		if err := s.guardParent(ctx, n); err != nil {
			return nil, err
		}
		return nil, storageErr("updating node", s.repo.Update(ctx, &n))
	})
}

// DeleteByID queues removal of a single node. Its children are left in
// place as orphans; use DeleteSubtree to cascade.
func (s *Store) DeleteByID(id string) *Pending {
	return s.submit("delete", func(ctx context.Context) ([]string, error) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, storageErr("deleting node", err)
		}
		return []string{id}, nil
	})
}

// DeleteAll queues removal of every node.
func (s *Store) DeleteAll() *Pending {
	return s.submit("delete_all", func(ctx context.Context) ([]string, error) {
		nodes, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, storageErr("listing nodes", err)
		}
		if err := s.repo.DeleteAll(ctx); err != nil {
			return nil, storageErr("deleting all nodes", err)
		}
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		return ids, nil
	})
}

// DeleteSubtree queues removal of id and all of its descendants in one
// transaction. The subtree is resolved against the backend at the time
// the operation runs, after every earlier queued mutation.
func (s *Store) DeleteSubtree(id string) *Pending {
	return s.submit("delete_subtree", func(ctx context.Context) ([]string, error) {
		nodes, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, storageErr("listing nodes", err)
		}
		ids, err := tree.SubtreeIDs(id, nodes)
		if err != nil {
			return nil, err
		}
		if _, err := s.repo.DeleteMany(ctx, ids); err != nil {
			return nil, storageErr("deleting subtree", err)
		}
		return ids, nil
	})
}

// Import queues a bulk write of nodes in one transaction, optionally
// replacing the whole collection. When merging, a node whose id is
// already stored keeps its stored parent and creation time; naming a
// different parent fails with ErrParentChanged. The combined collection
// must be free of parent cycles.
func (s *Store) Import(nodes []domain.Node, replace bool) *Pending {
	incoming := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		incoming[i] = n.Clone()
	}
	return s.submit("import", func(ctx context.Context) ([]string, error) {
		batch, merged := incoming, incoming
		if !replace {
			existing, err := s.repo.ListAll(ctx)
			if err != nil {
				return nil, storageErr("listing nodes", err)
			}
			if batch, err = keepPlacement(existing, incoming); err != nil {
				return nil, err
			}
			merged = mergeByID(existing, batch)
		}
		if _, err := tree.Compute(merged); err != nil {
			return nil, err
		}
		if err := s.repo.UpsertMany(ctx, batch, replace); err != nil {
			return nil, storageErr("importing nodes", err)
		}
		ids := make([]string, len(batch))
		for i, n := range batch {
			ids[i] = n.ID
		}
		return ids, nil
	})
}

// keepPlacement copies the stored parent and creation time onto incoming
// nodes that are already stored. A nil incoming parent means "unchanged".
func keepPlacement(existing, incoming []domain.Node) ([]domain.Node, error) {
	stored := make(map[string]domain.Node, len(existing))
	for _, n := range existing {
		stored[n.ID] = n
	}
	out := make([]domain.Node, len(incoming))
	for i, n := range incoming {
		if prev, ok := stored[n.ID]; ok {
			if n.ParentID != nil && (prev.ParentID == nil || *prev.ParentID != *n.ParentID) {
				return nil, fmt.Errorf("importing node %s: %w", n.ID, ErrParentChanged)
			}
			n.ParentID = prev.Clone().ParentID
			n.CreatedAt = prev.CreatedAt
		}
		out[i] = n
	}
	return out, nil
}

// mergeByID overlays incoming on existing, matching by id.
func mergeByID(existing, incoming []domain.Node) []domain.Node {
	replaced := make(map[string]bool, len(incoming))
	for _, n := range incoming {
		replaced[n.ID] = true
	}
	merged := make([]domain.Node, 0, len(existing)+len(incoming))
	for _, n := range existing {
		if !replaced[n.ID] {
			merged = append(merged, n)
		}
	}
	return append(merged, incoming...)
}

// Refresh queues a reload from the backend, picking up changes written
// by another process.
func (s *Store) Refresh() *Pending {
	return s.submit("refresh", func(context.Context) ([]string, error) {
		return nil, nil
	})
}

// guardParent checks n's parent chain against the backend, not the last
// published snapshot, so it sees every write committed before it.
func (s *Store) guardParent(ctx context.Context, n domain.Node) error {
	if n.ParentID == nil {
		return nil
	}
	nodes, err := s.repo.ListAll(ctx)
	if err != nil {
		return storageErr("listing nodes", err)
	}
	if tree.WouldCycle(nodes, n.ID, n.ParentID) {
		return &tree.CycleError{NodeID: n.ID, Path: []string{n.ID, *n.ParentID}}
	}
	return nil
}

func (s *Store) submit(name string, apply func(ctx context.Context) ([]string, error)) *Pending {
	p := newPending()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return failed(ErrClosed)
	}
	s.queue = append(s.queue, operation{name: name, apply: apply, pending: p})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return p
}

func (s *Store) next() (operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return operation{}, false
	}
	op := s.queue[0]
	s.queue = s.queue[1:]
	return op, true
}

func (s *Store) run(ctx context.Context) {
	defer close(s.stopped)
	defer s.shutdown()
	for {
		op, ok := s.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}
		if ctx.Err() != nil {
			op.pending.resolve(nil, ErrClosed)
			return
		}
		s.execute(ctx, op)
	}
}

func (s *Store) execute(ctx context.Context, op operation) {
	start := time.Now()
	removed, err := op.apply(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "store_operation",
			"op", op.name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		op.pending.resolve(nil, err)
		return
	}

	if err := s.reload(ctx); err != nil {
		// The write committed; subscribers keep the previous snapshot
		// until the next successful reload.
		s.logger.ErrorContext(ctx, "store_reload", "op", op.name, "error", err.Error())
	}
	s.logger.DebugContext(ctx, "store_operation",
		"op", op.name,
		"duration_ms", time.Since(start).Milliseconds(),
		"removed", len(removed),
	)
	op.pending.resolve(removed, nil)
}

func (s *Store) reload(ctx context.Context) error {
	nodes, err := s.repo.ListAll(ctx)
	if err != nil {
		return storageErr("reloading nodes", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Snapshot{Version: s.current.Version + 1, Nodes: nodes}
	for _, ch := range s.subscribers {
		offer(ch, s.current)
	}
	return nil
}
