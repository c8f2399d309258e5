package domain

import "fmt"

type NodeStatus string

const (
	StatusPending    NodeStatus = "pending"
	StatusInProgress NodeStatus = "in_progress"
	StatusCompleted  NodeStatus = "completed"
)

// ValidNodeStatuses is the canonical set of accepted status strings.
var ValidNodeStatuses = map[string]bool{
	"pending": true, "in_progress": true, "completed": true,
}

// Next returns the status that follows s in the toggle cycle
// pending -> in_progress -> completed -> pending. Unknown values restart
// the cycle at in_progress, as if they were pending.
func (s NodeStatus) Next() NodeStatus {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	case StatusCompleted:
		return StatusPending
	default:
		return StatusInProgress
	}
}

// LeafProgress is the fixed progress percentage of a node without children.
func (s NodeStatus) LeafProgress() float64 {
	switch s {
	case StatusCompleted:
		return 100
	case StatusInProgress:
		return 50
	default:
		return 0
	}
}

// ParseNodeStatus converts a wire name into a NodeStatus.
func ParseNodeStatus(s string) (NodeStatus, error) {
	if !ValidNodeStatuses[s] {
		return "", fmt.Errorf("invalid status %q (expected pending|in_progress|completed)", s)
	}
	return NodeStatus(s), nil
}
