package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/exchange"
	"github.com/alexanderramin/goaltree/internal/layout"
	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/store"
)

// NodeStore is the part of *store.Store the services drive.
type NodeStore interface {
	Current() store.Snapshot
	GetByID(ctx context.Context, id string) (*domain.Node, error)
	InsertOrReplace(n domain.Node) *store.Pending
	Update(n domain.Node) *store.Pending
	DeleteSubtree(id string) *store.Pending
	DeleteAll() *store.Pending
	Import(nodes []domain.Node, replace bool) *store.Pending
}

// Views is the part of *projection.Pipeline the services read from.
type Views interface {
	Current() (*projection.View, error)
	WaitVersion(ctx context.Context, version uint64) (projection.Update, error)
}

// Navigator is satisfied by *navigation.State.
type Navigator interface {
	NavigateTo(id *string)
	NavigateToRoot()
	Current() *string
}

// NodePatch lists the fields UpdateNode may change. Nil fields are left
// alone. The parent is not patchable.
type NodePatch struct {
	Name         *string
	Description  *string
	Status       *domain.NodeStatus
	Color        *string
	DueDate      *time.Time
	ClearDueDate bool
}

// Screen is what the presentation shows for the current navigation level.
// When Fault is set the tree could not be derived and Items come from the
// last good view.
type Screen struct {
	Parent  *projection.Item
	Path    []projection.Item
	Items   []projection.Item
	Version uint64
	Fault   error
}

type GoalService interface {
	SelectNode(ctx context.Context, id string) error
	NavigateToRoot(ctx context.Context)
	AddChild(ctx context.Context, parentID *string, name, description string) (*domain.Node, error)
	Get(ctx context.Context, id string) (*projection.Item, error)
	UpdateNode(ctx context.Context, id string, patch NodePatch) (*domain.Node, error)
	ToggleStatus(ctx context.Context, id string) (domain.NodeStatus, error)
	DeleteNode(ctx context.Context, id string) ([]string, error)
	Clear(ctx context.Context) (int, error)
	Items(ctx context.Context) ([]projection.Item, error)
	Screen(ctx context.Context) (*Screen, error)
	View(ctx context.Context) (*projection.View, error)
}

// Placement is an item with the canvas position it is drawn at.
type Placement struct {
	Item projection.Item
	At   layout.Point
}

type MapService interface {
	Canvas() layout.Canvas
	Layout(ctx context.Context) ([]Placement, error)
	HitTest(ctx context.Context, x, y float64) (*Placement, error)
	Move(ctx context.Context, id string, x, y float64) (*domain.Node, error)
	Drag(ctx context.Context, id string, dx, dy float64) (*domain.Node, error)
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	NodeCount int
	Replaced  bool
}

type ExchangeService interface {
	Export(ctx context.Context, w io.Writer, format exchange.Format) (int, error)
	Import(ctx context.Context, r io.Reader, format exchange.Format, replace bool) (*ImportResult, error)
	ImportFile(ctx context.Context, path string, replace bool) (*ImportResult, error)
}
