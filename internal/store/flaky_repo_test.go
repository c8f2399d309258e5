package store

import (
	"context"
	"sync"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/repository"
)

// flakyRepo wraps a NodeRepo and fails writes while Fail is set.
// Reads always pass through, so the last committed state stays visible.
type flakyRepo struct {
	repository.NodeRepo

	mu   sync.Mutex
	err  error
	hits int
}

func newFlakyRepo(inner repository.NodeRepo) *flakyRepo {
	return &flakyRepo{NodeRepo: inner}
}

// Fail makes every subsequent write return err; nil restores normal writes.
func (f *flakyRepo) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// FailedWrites returns how many writes were rejected.
func (f *flakyRepo) FailedWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits
}

func (f *flakyRepo) check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		f.hits++
	}
	return f.err
}

func (f *flakyRepo) Upsert(ctx context.Context, n *domain.Node) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.NodeRepo.Upsert(ctx, n)
}

func (f *flakyRepo) Update(ctx context.Context, n *domain.Node) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.NodeRepo.Update(ctx, n)
}

func (f *flakyRepo) Delete(ctx context.Context, id string) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.NodeRepo.Delete(ctx, id)
}

func (f *flakyRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return f.NodeRepo.DeleteMany(ctx, ids)
}

func (f *flakyRepo) DeleteAll(ctx context.Context) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.NodeRepo.DeleteAll(ctx)
}

func (f *flakyRepo) UpsertMany(ctx context.Context, nodes []domain.Node, replace bool) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.NodeRepo.UpsertMany(ctx, nodes, replace)
}
