package repository

import (
	"context"

	"github.com/alexanderramin/goaltree/internal/domain"
)

// NodeRepo is the durable side of the node store. ListAll returns the
// whole collection ordered by creation time, ties in insertion order.
type NodeRepo interface {
	ListAll(ctx context.Context) ([]domain.Node, error)
	GetByID(ctx context.Context, id string) (*domain.Node, error)
	Upsert(ctx context.Context, n *domain.Node) error
	Update(ctx context.Context, n *domain.Node) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
	DeleteAll(ctx context.Context) error
	UpsertMany(ctx context.Context, nodes []domain.Node, replace bool) error
}
