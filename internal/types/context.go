package types

import "fmt"

// ContextFile is one labeled file sent to the model as background
type ContextFile struct {
	Path    string // relative to the workspace root
	Content string
}

// Label renders the file the way it appears inside the system message
func (f ContextFile) Label() string {
	return fmt.Sprintf("File: %s\n```\n%s\n```", f.Path, f.Content)
}

// ContextBundle is the ordered context for one request. The focal file,
// when present, is always the first entry.
type ContextBundle []ContextFile

// TotalSize is the summed content length in bytes
func (b ContextBundle) TotalSize() int {
	total := 0
	for _, f := range b {
		total += len(f.Content)
	}
	return total
}

// Paths lists the relative paths in bundle order
func (b ContextBundle) Paths() []string {
	paths := make([]string, 0, len(b))
	for _, f := range b {
		paths = append(paths, f.Path)
	}
	return paths
}
