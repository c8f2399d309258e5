package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeStatus_NextCycles(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusPending.Next())
	assert.Equal(t, StatusCompleted, StatusInProgress.Next())
	assert.Equal(t, StatusPending, StatusCompleted.Next())
	assert.Equal(t, StatusPending, StatusPending.Next().Next().Next())
}

func TestNodeStatus_LeafProgress(t *testing.T) {
	assert.Equal(t, 0.0, StatusPending.LeafProgress())
	assert.Equal(t, 50.0, StatusInProgress.LeafProgress())
	assert.Equal(t, 100.0, StatusCompleted.LeafProgress())
}

func TestParseNodeStatus(t *testing.T) {
	s, err := ParseNodeStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseNodeStatus("done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestNode_CloneDoesNotShareParent(t *testing.T) {
	parent := "p1"
	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	n := Node{ID: "n1", ParentID: &parent, DueDate: &due}

	c := n.Clone()
	*c.ParentID = "other"
	*c.DueDate = due.AddDate(1, 0, 0)

	assert.Equal(t, "p1", *n.ParentID)
	assert.Equal(t, 2026, n.DueDate.Year())
	assert.True(t, c.HasParent("other"))
	assert.False(t, n.IsRoot())
}

func TestNode_ShortID(t *testing.T) {
	n := Node{ID: "0123456789abcdef"}
	assert.Equal(t, "01234567", n.ShortID())
	assert.Equal(t, "abc", (&Node{ID: "abc"}).ShortID())
}

func TestValidColor(t *testing.T) {
	assert.True(t, ValidColor(DefaultColor))
	assert.True(t, ValidColor("#a1b2c3"))
	assert.False(t, ValidColor("3B82F6"))
	assert.False(t, ValidColor("#3B82F"))
	assert.False(t, ValidColor("#GGGGGG"))
	assert.False(t, ValidColor(""))
}
