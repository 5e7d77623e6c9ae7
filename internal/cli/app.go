package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"claudia/internal/config"
	"claudia/internal/gatherer"
	"claudia/internal/llm"
	"claudia/internal/logging"
	"claudia/internal/panel"
	"claudia/internal/workspace"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	workspace  string
	verbose    bool
	file       string
	lines      string
}

// host is what the controller reports to; it also takes the LLM client's
// construction warnings
type host interface {
	panel.Host
	panel.Poster
	llm.Warner
}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	closer   io.Closer
	editor   *workspace.Editor
	gatherer *gatherer.Gatherer

	client     *llm.Client
	controller *panel.Controller
}

// openApp loads configuration and opens the workspace, the active file and
// its selection. Nothing talks to the API until connect is called.
func openApp(opts options, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.Log, opts.verbose, logOut)
	if err != nil {
		return nil, err
	}

	root := opts.workspace
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			closer.Close()
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	editor, err := workspace.NewEditor(root)
	if err != nil {
		closer.Close()
		return nil, err
	}
	wsRoot, _ := editor.WorkspaceRoot()

	if opts.file != "" {
		if _, err := editor.Open(opts.file); err != nil {
			closer.Close()
			return nil, err
		}
	}
	if opts.lines != "" {
		r, err := workspace.ParseRange(opts.lines)
		if err == nil {
			err = editor.Select(r)
		}
		if err != nil {
			closer.Close()
			return nil, err
		}
	}

	logger.Debug("workspace opened", "root", wsRoot, "file", opts.file, "lines", opts.lines)

	return &app{
		cfg:      cfg,
		logger:   logger,
		closer:   closer,
		editor:   editor,
		gatherer: gatherer.New(wsRoot, gatherer.OptionsFromConfig(cfg.Context), logger),
	}, nil
}

// connect builds the LLM client and the controller reporting to h
func (a *app) connect(h host) {
	a.client = llm.NewClient(a.cfg.LLM, h, llm.WithLogger(a.logger))
	a.controller = panel.NewController(a.editor, a.gatherer, a.client, h, h, a.cfg.Context.MaxFiles, a.logger)
}

func (a *app) Close() error {
	return a.closer.Close()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
