package domain

import (
	"regexp"
	"time"
)

// DefaultColor is the accent assigned to nodes created without one.
const DefaultColor = "#3B82F6"

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidColor reports whether c is a #RRGGBB hex color.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}

// Node is a single goal in the tree. ParentID is nil for roots and is
// fixed at creation.
type Node struct {
	ID          string
	Name        string
	Description string
	Status      NodeStatus
	ParentID    *string
	Color       string
	X           float64
	Y           float64
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// HasParent reports whether the node's parent is id.
func (n *Node) HasParent(id string) bool {
	return n.ParentID != nil && *n.ParentID == id
}

// Clone returns a deep copy so snapshots can be handed out without
// sharing pointer fields.
func (n Node) Clone() Node {
	if n.ParentID != nil {
		p := *n.ParentID
		n.ParentID = &p
	}
	if n.DueDate != nil {
		d := *n.DueDate
		n.DueDate = &d
	}
	return n
}

// ShortID returns the first 8 characters of the node ID for display.
func (n *Node) ShortID() string {
	if len(n.ID) <= 8 {
		return n.ID
	}
	return n.ID[:8]
}
