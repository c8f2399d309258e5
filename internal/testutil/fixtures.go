package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/google/uuid"
)

// fixtureEpoch anchors fixture timestamps; every new node is one
// millisecond later than the previous, so creation order is the call order.
var (
	fixtureEpoch = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	fixtureTick  atomic.Int64
)

// NextTimestamp returns a strictly increasing fixture time.
func NextTimestamp() time.Time {
	return fixtureEpoch.Add(time.Duration(fixtureTick.Add(1)) * time.Millisecond)
}

type NodeOption func(*domain.Node)

func WithParent(id string) NodeOption {
	return func(n *domain.Node) {
		n.ParentID = &id
	}
}

func WithStatus(s domain.NodeStatus) NodeOption {
	return func(n *domain.Node) {
		n.Status = s
	}
}

func WithID(id string) NodeOption {
	return func(n *domain.Node) {
		n.ID = id
	}
}

func WithDescription(d string) NodeOption {
	return func(n *domain.Node) {
		n.Description = d
	}
}

func WithCreatedAt(t time.Time) NodeOption {
	return func(n *domain.Node) {
		n.CreatedAt = t
		n.UpdatedAt = t
	}
}

func WithDueDate(d time.Time) NodeOption {
	return func(n *domain.Node) {
		n.DueDate = &d
	}
}

func WithPosition(x, y float64) NodeOption {
	return func(n *domain.Node) {
		n.X = x
		n.Y = y
	}
}

// NewTestNode builds a pending root node with a fresh UUID.
func NewTestNode(name string, opts ...NodeOption) *domain.Node {
	ts := NextTimestamp()
	n := &domain.Node{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.StatusPending,
		Color:     domain.DefaultColor,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Values dereferences fixture nodes into a snapshot slice.
func Values(nodes ...*domain.Node) []domain.Node {
	out := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		out[i] = *n
	}
	return out
}
