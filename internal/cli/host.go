package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"claudia/internal/panel"
	"claudia/internal/tui"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	sourceStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

const renderWidth = 100

// newRenderer is swapped out in tests
var newRenderer = func() tui.MarkdownRenderer {
	return tui.NewMarkdownRenderer(renderWidth)
}

// terminalHost prints documents to out and notifications to errOut. One-shot
// commands have no recent-questions list, so posted messages are dropped.
type terminalHost struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	renderer tui.MarkdownRenderer
}

func newTerminalHost(out, errOut io.Writer) *terminalHost {
	return &terminalHost{
		out:      out,
		errOut:   errOut,
		renderer: newRenderer(),
	}
}

func (h *terminalHost) ShowDocument(r panel.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rendered, err := h.renderer.Render(r.Markdown)
	if err != nil {
		rendered = r.Markdown
	}
	fmt.Fprintln(h.out, strings.TrimRight(rendered, "\n"))

	if len(r.Sources) > 0 {
		fmt.Fprintln(h.out)
		fmt.Fprintln(h.out, sourceStyle.Render("≡ Context: "+strings.Join(r.Sources, ", ")))
	}
}

func (h *terminalHost) ShowInfo(msg string) {
	h.println(h.out, successStyle.Render(msg))
}

func (h *terminalHost) ShowWarning(msg string) {
	h.println(h.errOut, warningStyle.Render("Warning: "+msg))
}

func (h *terminalHost) ShowError(msg string) {
	h.println(h.errOut, errorStyle.Render(msg))
}

func (h *terminalHost) Warn(msg string) {
	h.ShowWarning(msg)
}

func (h *terminalHost) Post(panel.Message) {}

func (h *terminalHost) println(w io.Writer, s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(w, s)
}
