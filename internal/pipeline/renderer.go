package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ppiankov/patentia/internal/model"
)

// StdoutTarget is the output path that writes to the renderer's stdout
const StdoutTarget = "-"

// Renderer writes parsed documents
type Renderer struct {
	indent string
	stdout io.Writer
}

// NewRenderer creates a new renderer. An empty indent gives compact JSON.
func NewRenderer(indent string) *Renderer {
	return &Renderer{
		indent: indent,
		stdout: os.Stdout,
	}
}

// RenderJSON writes the document as JSON to path
func (r *Renderer) RenderJSON(doc *model.Document, path string) (err error) {
	if path == StdoutTarget {
		return r.encode(r.stdout, doc)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	return r.encode(f, doc)
}

func (r *Renderer) encode(w io.Writer, doc *model.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	return enc.Encode(doc)
}

// RenderSummary prints a short overview of the document
func (r *Renderer) RenderSummary(doc *model.Document, w io.Writer) {
	keys := make([]string, 0, len(doc.Patent))
	for k := range doc.Patent {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	claims, parts := doc.SectionCounts()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Source:       %s\n", doc.Source)
	fmt.Fprintf(w, "  Digest:       %s\n", shortDigest(doc.Digest))
	fmt.Fprintf(w, "  Properties:   %s\n", strings.Join(keys, ", "))
	fmt.Fprintf(w, "  Claims:       %d\n", claims)
	fmt.Fprintf(w, "  Description:  %d parts\n", parts)
	fmt.Fprintf(w, "  Warnings:     %d\n", len(doc.Warnings))
	if doc.Cached {
		fmt.Fprintf(w, "  Cached:       yes\n")
	}
	fmt.Fprintf(w, "\n")
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
