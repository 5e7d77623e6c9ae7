// Package panel routes the user's panel actions (ask, analyze, document,
// explain) through context gathering, prompt formatting and a single
// completion, and reports the outcome to the host.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"claudia/internal/prompt"
	"claudia/internal/types"
	"claudia/internal/workspace"

	"github.com/google/uuid"
)

// User-facing precondition failures
const (
	NoWorkspace      = "No workspace is open"
	EmptyQuestion    = "Please enter a question"
	NoFileToAnalyze  = "No file open to analyze"
	NoFileToDocument = "No file open to document"
	NoActiveEditor   = "No editor is active"
	NoSelection      = "No code selected"
	NoAPIKey         = "Claude API key not found. Please configure it in claudia.toml."
)

// PreconditionError is returned when an action is refused before any work
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Result is rendered by the host as a new read-only markdown document
type Result struct {
	Title    string
	Markdown string
	Sources  []string
}

type Editor interface {
	WorkspaceRoot() (string, bool)
	ActiveDocument() (workspace.Document, bool)
}

type ContextGatherer interface {
	Gather(ctx context.Context, focalPath string, maxFiles int) (types.ContextBundle, error)
}

type Completer interface {
	Complete(ctx context.Context, userPrompt, systemMessage string) (string, error)
}

// Host shows results and notifications to the user
type Host interface {
	ShowDocument(result Result)
	ShowInfo(msg string)
	ShowWarning(msg string)
	ShowError(msg string)
}

// Poster delivers outbound messages to the panel UI
type Poster interface {
	Post(msg Message)
}

type Controller struct {
	editor   Editor
	gatherer ContextGatherer
	llm      Completer
	host     Host
	poster   Poster
	maxFiles int
	logger   *slog.Logger
}

func NewController(editor Editor, gatherer ContextGatherer, llm Completer, host Host, poster Poster, maxFiles int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		editor:   editor,
		gatherer: gatherer,
		llm:      llm,
		host:     host,
		poster:   poster,
		maxFiles: maxFiles,
		logger:   logger,
	}
}

// Handle dispatches one inbound panel message. Unknown kinds are ignored.
func (c *Controller) Handle(ctx context.Context, msg Message) error {
	switch msg.Type {
	case AskQuestion:
		return c.Ask(ctx, msg.Value)
	case AnalyzeCode:
		return c.Analyze(ctx)
	case DocumentCode:
		return c.Document(ctx)
	case ExplainCode:
		return c.Explain(ctx)
	default:
		c.logger.Debug("ignoring panel message", "type", msg.Type)
		return nil
	}
}

// Ask sends the question verbatim and, on success, posts it to the panel's
// recent-questions list.
func (c *Controller) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return c.refuse(EmptyQuestion)
	}

	if err := c.run(ctx, "ask", question, "Claude's Response to: "+question); err != nil {
		return err
	}

	if c.poster != nil {
		c.poster.Post(Message{Type: AddRecentQuestion, Value: question})
	}
	return nil
}

func (c *Controller) Analyze(ctx context.Context) error {
	doc, ok := c.editor.ActiveDocument()
	if !ok {
		return c.refuse(NoFileToAnalyze)
	}
	return c.run(ctx, "analyze", prompt.AnalyzePrompt(doc.FileName(), doc.Text), "Code Analysis")
}

func (c *Controller) Document(ctx context.Context) error {
	doc, ok := c.editor.ActiveDocument()
	if !ok {
		return c.refuse(NoFileToDocument)
	}
	return c.run(ctx, "document", prompt.DocumentPrompt(doc.FileName(), doc.Text), "Code Documentation")
}

func (c *Controller) Explain(ctx context.Context) error {
	doc, ok := c.editor.ActiveDocument()
	if !ok {
		return c.refuse(NoActiveEditor)
	}
	selection := doc.SelectedText()
	if selection == "" {
		return c.refuse(NoSelection)
	}
	return c.run(ctx, "explain", prompt.ExplainPrompt(doc.Extension(), selection), "Code Explanation")
}

// Test checks the API connection with a fixed greeting and no context
func (c *Controller) Test(ctx context.Context) (string, error) {
	if k, ok := c.llm.(interface{ HasAPIKey() bool }); ok && !k.HasAPIKey() {
		return "", c.refuse(NoAPIKey)
	}

	response, err := c.llm.Complete(ctx, prompt.PingPrompt, prompt.Format(nil))
	if err != nil {
		c.host.ShowError(fmt.Sprintf("Claude API test failed: %v", err))
		return "", err
	}

	c.host.ShowInfo(fmt.Sprintf("Claude API test successful: %s...", truncate(response, 100)))
	return response, nil
}

// run gathers context for the active file, formats it and completes
// userPrompt, in that order. Every failure is reported to the host before
// being returned.
func (c *Controller) run(ctx context.Context, action, userPrompt, title string) error {
	logger := c.logger.With("request_id", uuid.NewString(), "action", action)
	start := time.Now()

	if _, ok := c.editor.WorkspaceRoot(); !ok {
		return c.refuse(NoWorkspace)
	}

	var bundle types.ContextBundle
	if doc, ok := c.editor.ActiveDocument(); ok {
		var err error
		bundle, err = c.gatherer.Gather(ctx, doc.Path, c.maxFiles)
		if err != nil {
			logger.Error("context gathering failed", "path", doc.Path, "error", err)
			c.host.ShowError(fmt.Sprintf("Failed to gather context: %v", err))
			return err
		}
	}
	logger.Info("context ready", "files", len(bundle), "bytes", bundle.TotalSize())

	response, err := c.llm.Complete(ctx, userPrompt, prompt.Format(bundle))
	if err != nil {
		logger.Error("completion failed", "error", err)
		c.host.ShowError(fmt.Sprintf("Claude API error: %v", err))
		return err
	}

	logger.Info("completion shown", "duration_ms", time.Since(start).Milliseconds())
	c.host.ShowDocument(Result{
		Title:    title,
		Markdown: fmt.Sprintf("# %s\n\n%s", title, response),
		Sources:  bundle.Paths(),
	})
	return nil
}

func (c *Controller) refuse(reason string) error {
	c.host.ShowError(reason)
	return &PreconditionError{Reason: reason}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
