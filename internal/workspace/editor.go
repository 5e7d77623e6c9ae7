// Package workspace is the terminal stand-in for an editor: it tracks the
// workspace root, the active document and its selected line range.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Range is a 1-based inclusive line range. The zero value selects nothing.
type Range struct {
	Start int
	End   int
}

func (r Range) Empty() bool {
	return r.Start == 0 && r.End == 0
}

func (r Range) String() string {
	if r.Empty() {
		return ""
	}
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// ParseRange accepts "A:B" or a single line "A". An empty string is the
// empty range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, nil
	}

	startText, endText, found := strings.Cut(s, ":")
	if !found {
		endText = startText
	}

	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return Range{}, fmt.Errorf("invalid line range %q: %w", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return Range{}, fmt.Errorf("invalid line range %q: %w", s, err)
	}
	if start < 1 || end < start {
		return Range{}, fmt.Errorf("invalid line range %q: want 1 <= start <= end", s)
	}

	return Range{Start: start, End: end}, nil
}

// Document is a snapshot of the active file
type Document struct {
	Path      string // absolute
	Text      string
	Selection Range
}

func (d Document) FileName() string {
	return filepath.Base(d.Path)
}

// Extension is the text after the last dot of the file name, or the whole
// name when it has no dot.
func (d Document) Extension() string {
	name := d.FileName()
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// SelectedText returns the selected lines, clamped to the document. Lines
// past the end select nothing.
func (d Document) SelectedText() string {
	if d.Selection.Empty() {
		return ""
	}
	lines := strings.Split(d.Text, "\n")
	start := d.Selection.Start - 1
	if start >= len(lines) {
		return ""
	}
	end := d.Selection.End
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (d Document) LineCount() int {
	if d.Text == "" {
		return 0
	}
	return strings.Count(d.Text, "\n") + 1
}

// Editor is safe for concurrent use; actions read snapshots while the panel
// may switch files.
type Editor struct {
	mu     sync.RWMutex
	root   string
	active *Document
}

// NewEditor opens a workspace rooted at root. An empty root means no
// workspace is open.
func NewEditor(root string) (*Editor, error) {
	if root == "" {
		return &Editor{}, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace %s is not a directory", abs)
	}
	return &Editor{root: abs}, nil
}

func (e *Editor) WorkspaceRoot() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root, e.root != ""
}

// Open makes path the active document. Relative paths are resolved against
// the workspace root when one is open.
func (e *Editor) Open(path string) (Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !filepath.IsAbs(path) && e.root != "" {
		path = filepath.Join(e.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	e.active = &Document{Path: abs, Text: string(data)}
	return *e.active, nil
}

// Select sets the selection on the active document
func (e *Editor) Select(r Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return fmt.Errorf("no active document")
	}
	e.active.Selection = r
	return nil
}

func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = nil
}

// ActiveDocument returns a copy of the active document
func (e *Editor) ActiveDocument() (Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.active == nil {
		return Document{}, false
	}
	return *e.active, true
}
