package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"claudia/internal/panel"
	"claudia/internal/workspace"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Dispatcher runs one inbound panel message to completion
type Dispatcher interface {
	Handle(ctx context.Context, msg panel.Message) error
}

// Workspace is the editor state the panel can change
type Workspace interface {
	WorkspaceRoot() (string, bool)
	ActiveDocument() (workspace.Document, bool)
	Open(path string) (workspace.Document, error)
	Select(r workspace.Range) error
}

type inputMode int

const (
	modeQuestion inputMode = iota
	modeOpen
	modeLines
)

type focusArea int

const (
	focusInput focusArea = iota
	focusRecent
)

type actionDoneMsg struct {
	kind panel.MessageType
	err  error
}

type status struct {
	level notifyLevel
	text  string
}

// recentItem adapts a question to the bubbles list
type recentItem string

func (i recentItem) Title() string       { return string(i) }
func (i recentItem) Description() string { return "" }
func (i recentItem) FilterValue() string { return string(i) }

const recentWidth = 34

// Color scheme
var (
	primaryColor   = lipgloss.Color("#00D9FF")
	secondaryColor = lipgloss.Color("#7C3AED")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	warningColor   = lipgloss.Color("#F59E0B")
	mutedColor     = lipgloss.Color("#6B7280")
	textColor      = lipgloss.Color("#F9FAFB")
	borderColor    = lipgloss.Color("#374151")
)

type Model struct {
	ctx        context.Context
	dispatcher Dispatcher
	workspace  Workspace
	bridge     *Bridge
	renderer   MarkdownRenderer

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	recents  list.Model
	help     help.Model
	keys     keyMap

	recent   panel.RecentQuestions
	mode     inputMode
	focus    focusArea
	inFlight int
	status   status
	title    string
	markdown string

	width  int
	height int
}

func NewModel(ctx context.Context, dispatcher Dispatcher, ws Workspace, bridge *Bridge, renderer MarkdownRenderer) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if renderer == nil {
		renderer = PlainRenderer{}
	}

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(textColor)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = false

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	recents := list.New(nil, delegate, recentWidth, 20)
	recents.Title = "Recent Questions"
	recents.SetShowHelp(false)
	recents.SetShowStatusBar(false)
	recents.SetFilteringEnabled(false)
	recents.Styles.Title = lipgloss.NewStyle().
		Foreground(textColor).
		Background(secondaryColor).
		Padding(0, 1)

	m := Model{
		ctx:        ctx,
		dispatcher: dispatcher,
		workspace:  ws,
		bridge:     bridge,
		renderer:   renderer,
		input:      ti,
		viewport:   vp,
		spinner:    s,
		recents:    recents,
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
	m.setMode(modeQuestion)
	m.viewport.SetContent(m.welcome())
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.DisableMouse}
	if m.bridge != nil {
		for _, msg := range m.bridge.Pending() {
			cmds = append(cmds, emit(msg))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case documentMsg:
		m.title = msg.Title
		m.markdown = msg.Markdown
		m.viewport.SetContent(m.renderDocument(panel.Result(msg)))
		m.viewport.GotoTop()
		return m, nil

	case notificationMsg:
		m.status = status{level: msg.level, text: msg.text}
		return m, nil

	case outboundMsg:
		if msg.Type == panel.AddRecentQuestion {
			m.recent.Add(msg.Value)
			cmd = m.recents.SetItems(m.recentItems())
		}
		return m, cmd

	case actionDoneMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		return m, nil

	case spinner.TickMsg:
		if m.inFlight > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.markdown != "" {
			m.viewport.SetContent(m.renderDocument(panel.Result{Title: m.title, Markdown: m.markdown}))
		} else {
			m.viewport.SetContent(m.welcome())
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.mode != modeQuestion {
			m.setMode(modeQuestion)
			return m, nil
		}
		if m.focus == focusRecent {
			m.setFocus(focusInput)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusInput {
			m.setFocus(focusRecent)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Analyze):
		cmd = m.dispatch(panel.Message{Type: panel.AnalyzeCode})
		return m, cmd

	case key.Matches(msg, m.keys.Document):
		cmd = m.dispatch(panel.Message{Type: panel.DocumentCode})
		return m, cmd

	case key.Matches(msg, m.keys.Explain):
		cmd = m.dispatch(panel.Message{Type: panel.ExplainCode})
		return m, cmd

	case key.Matches(msg, m.keys.Open):
		m.setMode(modeOpen)
		return m, nil

	case key.Matches(msg, m.keys.Lines):
		m.setMode(modeLines)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusRecent {
			if item, ok := m.recents.SelectedItem().(recentItem); ok {
				m.input.SetValue(string(item))
				m.input.CursorEnd()
			}
			m.setFocus(focusInput)
			return m, nil
		}
		return m.submit()
	}

	if m.focus == focusRecent {
		m.recents, cmd = m.recents.Update(msg)
		return m, cmd
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit acts on the input line according to the current mode
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.mode {
	case modeOpen:
		if value == "" {
			return m, nil
		}
		doc, err := m.workspace.Open(value)
		if err != nil {
			m.status = status{level: levelError, text: fmt.Sprintf("Failed to open %s: %v", value, err)}
			return m, nil
		}
		m.status = status{level: levelInfo, text: fmt.Sprintf("Opened %s (%d lines)", doc.FileName(), doc.LineCount())}
		m.setMode(modeQuestion)
		return m, nil

	case modeLines:
		r, err := workspace.ParseRange(value)
		if err == nil {
			err = m.workspace.Select(r)
		}
		if err != nil {
			m.status = status{level: levelError, text: err.Error()}
			return m, nil
		}
		if r.Empty() {
			m.status = status{level: levelInfo, text: "Selection cleared"}
		} else {
			m.status = status{level: levelInfo, text: "Selected lines " + r.String()}
		}
		m.setMode(modeQuestion)
		return m, nil
	}

	m.input.SetValue("")
	cmd := m.dispatch(panel.Message{Type: panel.AskQuestion, Value: value})
	return m, cmd
}

// dispatch runs msg on its own goroutine. The controller reports the outcome
// through the bridge, so the completion message only tracks activity.
func (m *Model) dispatch(msg panel.Message) tea.Cmd {
	m.inFlight++
	m.status = status{}
	return tea.Batch(m.spinner.Tick, m.handle(msg))
}

func (m Model) handle(msg panel.Message) tea.Cmd {
	ctx := m.ctx
	dispatcher := m.dispatcher
	return func() tea.Msg {
		err := dispatcher.Handle(ctx, msg)
		return actionDoneMsg{kind: msg.Type, err: err}
	}
}

func (m *Model) setMode(mode inputMode) {
	m.mode = mode
	m.input.SetValue("")
	switch mode {
	case modeOpen:
		m.input.Prompt = "open> "
		m.input.Placeholder = "path to a file in the workspace"
	case modeLines:
		m.input.Prompt = "lines> "
		m.input.Placeholder = "start:end (empty clears the selection)"
	default:
		m.input.Prompt = "> "
		m.input.Placeholder = "Ask Claude about your code"
	}
	m.setFocus(focusInput)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	mainWidth := width - recentWidth - 4
	if mainWidth < 20 {
		mainWidth = 20
	}
	bodyHeight := height - 10
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	m.viewport.Width = mainWidth - 4
	m.viewport.Height = bodyHeight
	m.recents.SetSize(recentWidth, bodyHeight)
	m.input.Width = width - 8
	m.help.Width = width
}

func (m Model) recentItems() []list.Item {
	questions := m.recent.Items()
	items := make([]list.Item, len(questions))
	for i, q := range questions {
		items[i] = recentItem(q)
	}
	return items
}

func (m Model) renderDocument(r panel.Result) string {
	out, err := m.renderer.Render(r.Markdown)
	if err != nil {
		out = r.Markdown
	}
	if len(r.Sources) > 0 {
		sources := lipgloss.NewStyle().Foreground(mutedColor).
			Render("Context: " + strings.Join(r.Sources, ", "))
		out = strings.TrimRight(out, "\n") + "\n\n" + sources
	}
	return out
}

func (m Model) welcome() string {
	var b strings.Builder
	b.WriteString("Ask Claude questions about the code in your workspace.\n\n")
	b.WriteString("The active file and the files it imports are sent along as context.\n\n")
	b.WriteString("  ctrl+o  open a file\n")
	b.WriteString("  ctrl+l  select lines for explain\n")
	b.WriteString("  ctrl+a  analyze the active file\n")
	b.WriteString("  ctrl+d  document the active file\n")
	b.WriteString("  ctrl+e  explain the selection\n")
	return lipgloss.NewStyle().Foreground(mutedColor).Render(b.String())
}

func (m Model) activeLabel() string {
	root, ok := m.workspace.WorkspaceRoot()
	if !ok {
		return "no workspace"
	}
	doc, ok := m.workspace.ActiveDocument()
	if !ok {
		return filepath.Base(root) + " (no file open)"
	}
	label := doc.Path
	if rel, err := filepath.Rel(root, doc.Path); err == nil {
		label = rel
	}
	if !doc.Selection.Empty() {
		label += " [" + doc.Selection.String() + "]"
	}
	return label
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(textColor).
		Background(secondaryColor).
		Padding(0, 2).
		Width(m.width).
		Align(lipgloss.Center)

	b.WriteString(headerStyle.Render("CLAUDIA"))
	b.WriteString("\n")

	viewportStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.viewport.Width + 2).
		Height(m.viewport.Height)

	recentBorder := borderColor
	if m.focus == focusRecent {
		recentBorder = primaryColor
	}
	recentStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(recentBorder).
		Width(recentWidth).
		Height(m.viewport.Height)

	recentView := m.recents.View()
	if m.recent.Len() == 0 {
		recentView = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1).
			Render("No recent questions")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		viewportStyle.Render(m.viewport.View()),
		recentStyle.Render(recentView),
	))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	inputBorder := primaryColor
	if m.focus == focusRecent {
		inputBorder = borderColor
	}
	inputContainerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(inputBorder).
		Padding(0, 1).
		Width(m.width - 2)

	b.WriteString(inputContainerStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) statusLine() string {
	style := lipgloss.NewStyle().Padding(0, 2)

	if m.inFlight > 0 {
		return style.Foreground(primaryColor).Bold(true).
			Render(fmt.Sprintf("%s Asking Claude... (%d running)", m.spinner.View(), m.inFlight))
	}

	if m.status.text != "" {
		switch m.status.level {
		case levelError:
			style = style.Foreground(errorColor).Bold(true)
		case levelWarning:
			style = style.Foreground(warningColor)
		default:
			style = style.Foreground(successColor)
		}
		return style.Render(m.status.text)
	}

	return style.Foreground(mutedColor).Render(m.activeLabel())
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Run starts the panel on the terminal and blocks until the user quits
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if m.bridge != nil {
		m.bridge.Attach(p)
	}
	_, err := p.Run()
	return err
}
