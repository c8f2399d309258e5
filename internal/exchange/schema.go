// Package exchange reads and writes goal trees as JSON or YAML documents.
package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the document version this package writes and accepts.
const SchemaVersion = 1

// Format names an encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json or yaml)", s)
	}
}

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the top-level exchange structure.
type Document struct {
	Version    int          `json:"version" yaml:"version"`
	ExportedAt string       `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Nodes      []NodeRecord `json:"nodes" yaml:"nodes"`
}

// NodeRecord is one node in a document. Parents must appear in the same
// document; dates are YYYY-MM-DD and timestamps RFC 3339.
type NodeRecord struct {
	ID          string  `json:"id" yaml:"id"`
	ParentID    *string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string  `json:"status,omitempty" yaml:"status,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
	X           float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y           float64 `json:"y,omitempty" yaml:"y,omitempty"`
	DueDate     *string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Decode parses a document. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing json document: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("parsing yaml document: empty input")
			}
			return nil, fmt.Errorf("parsing yaml document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &doc, nil
}

// Encode writes doc with two-space indentation.
func Encode(w io.Writer, format Format, doc *Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// LoadFile reads a document, choosing the format from the extension.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}
