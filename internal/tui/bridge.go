package tui

import (
	"sync"

	"claudia/internal/panel"

	tea "github.com/charmbracelet/bubbletea"
)

type notifyLevel int

const (
	levelInfo notifyLevel = iota
	levelWarning
	levelError
)

type documentMsg panel.Result

type notificationMsg struct {
	level notifyLevel
	text  string
}

type outboundMsg panel.Message

// Bridge carries controller output into the running program. Anything sent
// before Attach is queued and replayed by the model's Init.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes future messages to p. Call it before p.Run; the model's Init
// replays whatever was queued.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

// Pending drains messages queued before a program was attached
func (b *Bridge) Pending() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.pending
	b.pending = nil
	return pending
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	if p == nil {
		b.pending = append(b.pending, msg)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	p.Send(msg)
}

func (b *Bridge) ShowDocument(r panel.Result) { b.send(documentMsg(r)) }
func (b *Bridge) ShowInfo(msg string)         { b.send(notificationMsg{level: levelInfo, text: msg}) }
func (b *Bridge) ShowWarning(msg string)      { b.send(notificationMsg{level: levelWarning, text: msg}) }
func (b *Bridge) ShowError(msg string)        { b.send(notificationMsg{level: levelError, text: msg}) }

// Warn lets the bridge receive construction-time warnings from the LLM client
func (b *Bridge) Warn(msg string) { b.ShowWarning(msg) }

func (b *Bridge) Post(msg panel.Message) { b.send(outboundMsg(msg)) }
