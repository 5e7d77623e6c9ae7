package tui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns a result document into terminal output
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// NewMarkdownRenderer returns a glamour renderer wrapping at width. It falls
// back to plain text when glamour cannot be initialized.
func NewMarkdownRenderer(width int) MarkdownRenderer {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainRenderer{}
	}
	return r
}

// PlainRenderer returns markdown unchanged
type PlainRenderer struct{}

func (PlainRenderer) Render(markdown string) (string, error) {
	return markdown, nil
}
