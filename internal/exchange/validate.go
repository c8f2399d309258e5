package exchange

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/tree"
)

const dateLayout = "2006-01-02"

// Validate checks a self-contained document before conversion and returns
// every problem found, not just the first.
func Validate(doc *Document) []error {
	return ValidateAgainst(doc, nil)
}

// ValidateAgainst checks a document that will be merged into existing.
// Parents may then refer to stored nodes, and a record for a stored id
// may repeat its parent or leave it out but not change it.
func ValidateAgainst(doc *Document, existing []domain.Node) []error {
	var errs []error

	if doc.Version != SchemaVersion {
		errs = append(errs, fmt.Errorf("version: unsupported value %d (expected %d)", doc.Version, SchemaVersion))
	}
	if doc.ExportedAt != "" {
		if _, err := time.Parse(time.RFC3339Nano, doc.ExportedAt); err != nil {
			errs = append(errs, fmt.Errorf("exported_at: invalid timestamp %q", doc.ExportedAt))
		}
	}

	stored := make(map[string]domain.Node, len(existing))
	for _, n := range existing {
		stored[n.ID] = n
	}

	ids := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		errs = append(errs, validateNode(i, n, ids)...)
	}

	for i, n := range doc.Nodes {
		if n.ParentID == nil {
			continue
		}
		_, known := stored[*n.ParentID]
		if *n.ParentID == n.ID {
			errs = append(errs, fmt.Errorf("nodes[%d].parent_id: node %q is its own parent", i, n.ID))
		} else if !ids[*n.ParentID] && !known {
			errs = append(errs, fmt.Errorf("nodes[%d].parent_id: %q does not match any node", i, *n.ParentID))
		}
		if prev, ok := stored[n.ID]; ok && (prev.ParentID == nil || *prev.ParentID != *n.ParentID) {
			errs = append(errs, fmt.Errorf("nodes[%d].parent_id: node %q already exists under %s; its parent cannot change", i, n.ID, parentLabel(prev.ParentID)))
		}
	}

	if len(errs) == 0 {
		errs = append(errs, validateAcyclic(doc, stored)...)
	}
	return errs
}

func parentLabel(id *string) string {
	if id == nil {
		return "the root"
	}
	return fmt.Sprintf("%q", *id)
}

func validateNode(i int, n NodeRecord, ids map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("nodes[%d]", i)

	if n.ID == "" {
		errs = append(errs, fmt.Errorf("%s.id is required", prefix))
	} else if ids[n.ID] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, n.ID))
	} else {
		ids[n.ID] = true
	}
	if n.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if n.Status != "" {
		if _, err := domain.ParseNodeStatus(n.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, n.Status))
		}
	}
	if n.Color != "" && !domain.ValidColor(n.Color) {
		errs = append(errs, fmt.Errorf("%s.color: invalid color %q (expected #RRGGBB)", prefix, n.Color))
	}
	if n.DueDate != nil {
		if _, err := time.Parse(dateLayout, *n.DueDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.due_date: invalid date format %q (expected YYYY-MM-DD)", prefix, *n.DueDate))
		}
	}
	if n.CreatedAt != "" {
		if _, err := time.Parse(time.RFC3339Nano, n.CreatedAt); err != nil {
			errs = append(errs, fmt.Errorf("%s.created_at: invalid timestamp %q", prefix, n.CreatedAt))
		}
	}
	if n.UpdatedAt != "" {
		if _, err := time.Parse(time.RFC3339Nano, n.UpdatedAt); err != nil {
			errs = append(errs, fmt.Errorf("%s.updated_at: invalid timestamp %q", prefix, n.UpdatedAt))
		}
	}
	return errs
}

// validateAcyclic checks the collection the import would produce. Stored
// nodes keep their parents, so only links the document adds can close a
// loop.
func validateAcyclic(doc *Document, stored map[string]domain.Node) []error {
	nodes := make([]domain.Node, 0, len(doc.Nodes)+len(stored))
	inDoc := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		inDoc[n.ID] = true
		parent := n.ParentID
		if prev, ok := stored[n.ID]; ok {
			parent = prev.ParentID
		}
		nodes = append(nodes, domain.Node{ID: n.ID, ParentID: parent})
	}
	for id, n := range stored {
		if !inDoc[id] {
			nodes = append(nodes, domain.Node{ID: id, ParentID: n.ParentID})
		}
	}
	_, err := tree.Compute(nodes)
	var cycle *tree.CycleError
	if errors.As(err, &cycle) {
		return []error{fmt.Errorf("nodes: parent links form a cycle through %q", cycle.NodeID)}
	}
	if err != nil {
		return []error{err}
	}
	return nil
}
