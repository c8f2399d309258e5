package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGraphIntegrity reports corrupted parent links (a cycle). It is a
// data fault, not a transient condition.
var ErrGraphIntegrity = errors.New("graph integrity fault")

// CycleError identifies the node at which a traversal re-entered its own
// ancestry. Path lists the ids on the traversal stack, ending with NodeID.
type CycleError struct {
	NodeID string
	Path   []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: cycle at node %s", ErrGraphIntegrity, e.NodeID)
	}
	return fmt.Sprintf("%s: cycle at node %s (%s)", ErrGraphIntegrity, e.NodeID, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrGraphIntegrity }
