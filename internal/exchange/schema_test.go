package exchange

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("goals.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/GOALS.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("goals.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("goals"))
}

func TestExportImport_PreservesTree(t *testing.T) {
	due := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	a := testutil.NewTestNode("A", testutil.WithDescription("top"), testutil.WithPosition(120, 80))
	b := testutil.NewTestNode("B", testutil.WithParent(a.ID), testutil.WithStatus(domain.StatusInProgress), testutil.WithDueDate(due))
	nodes := testutil.Values(a, b)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, FromNodes(nodes, time.Now())))

			doc, err := Decode(&buf, format)
			require.NoError(t, err)
			require.Empty(t, Validate(doc))

			got := ToNodes(doc, domain.DefaultColor, time.Now())
			require.Len(t, got, 2)
			assert.Equal(t, a.ID, got[0].ID)
			assert.Equal(t, "top", got[0].Description)
			assert.Equal(t, 120.0, got[0].X)
			assert.True(t, got[0].CreatedAt.Equal(a.CreatedAt))
			require.NotNil(t, got[1].ParentID)
			assert.Equal(t, a.ID, *got[1].ParentID)
			assert.Equal(t, domain.StatusInProgress, got[1].Status)
			require.NotNil(t, got[1].DueDate)
			assert.True(t, got[1].DueDate.Equal(due))
		})
	}
}

func TestDecode_YAMLHandWritten(t *testing.T) {
	src := `
version: 1
nodes:
  - id: trip
    name: Plan trip
  - id: book
    parent_id: trip
    name: Book flights
    status: in_progress
`
	doc, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	require.Empty(t, Validate(doc))

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	nodes := ToNodes(doc, "#111111", now)
	require.Len(t, nodes, 2)
	assert.Equal(t, domain.StatusPending, nodes[0].Status)
	assert.Equal(t, "#111111", nodes[0].Color)
	assert.True(t, nodes[0].CreatedAt.Equal(now))
	assert.True(t, nodes[1].CreatedAt.After(nodes[0].CreatedAt), "document order becomes creation order")
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"version":1,"nodes":[],"extra":true}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("version: 1\nnodes: []\nextra: true\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(""), FormatYAML)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nnodes:\n  - id: a\n    name: A\n"), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "A", doc.Nodes[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
