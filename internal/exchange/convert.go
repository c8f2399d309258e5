package exchange

import (
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
)

// ToNodes converts a validated document into domain nodes. Missing
// statuses become pending, missing colors become defaultColor and missing
// timestamps become now. Creation order is kept by spacing missing
// timestamps one microsecond apart in document order.
func ToNodes(doc *Document, defaultColor string, now time.Time) []domain.Node {
	nodes := make([]domain.Node, 0, len(doc.Nodes))
	for i, r := range doc.Nodes {
		n := domain.Node{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Status:      domain.StatusPending,
			Color:       r.Color,
			X:           r.X,
			Y:           r.Y,
		}
		if r.ParentID != nil {
			pid := *r.ParentID
			n.ParentID = &pid
		}
		if r.Status != "" {
			n.Status = domain.NodeStatus(r.Status)
		}
		if n.Color == "" {
			n.Color = defaultColor
		}
		if r.DueDate != nil {
			if d, err := time.Parse(dateLayout, *r.DueDate); err == nil {
				n.DueDate = &d
			}
		}
		n.CreatedAt = parseOr(r.CreatedAt, now.Add(time.Duration(i)*time.Microsecond))
		n.UpdatedAt = parseOr(r.UpdatedAt, n.CreatedAt)
		nodes = append(nodes, n)
	}
	return nodes
}

// FromNodes builds a document from a snapshot.
func FromNodes(nodes []domain.Node, now time.Time) *Document {
	doc := &Document{
		Version:    SchemaVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Nodes:      make([]NodeRecord, 0, len(nodes)),
	}
	for _, n := range nodes {
		r := NodeRecord{
			ID:          n.ID,
			Name:        n.Name,
			Description: n.Description,
			Status:      string(n.Status),
			Color:       n.Color,
			X:           n.X,
			Y:           n.Y,
			CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339Nano),
			UpdatedAt:   n.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		if n.ParentID != nil {
			pid := *n.ParentID
			r.ParentID = &pid
		}
		if n.DueDate != nil {
			d := n.DueDate.Format(dateLayout)
			r.DueDate = &d
		}
		doc.Nodes = append(doc.Nodes, r)
	}
	return doc
}

func parseOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fallback
	}
	return t.UTC()
}
