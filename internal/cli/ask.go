package cli

import (
	"context"

	"claudia/internal/panel"

	"github.com/spf13/cobra"
)

func runAsk(cmd *cobra.Command, question string) error {
	return runAction(cmd, func(ctx context.Context, c *panel.Controller) error {
		return c.Ask(ctx, question)
	})
}

func runAnalyze(cmd *cobra.Command) error {
	return runAction(cmd, func(ctx context.Context, c *panel.Controller) error {
		return c.Analyze(ctx)
	})
}

func runDocument(cmd *cobra.Command) error {
	return runAction(cmd, func(ctx context.Context, c *panel.Controller) error {
		return c.Document(ctx)
	})
}

func runExplain(cmd *cobra.Command) error {
	return runAction(cmd, func(ctx context.Context, c *panel.Controller) error {
		return c.Explain(ctx)
	})
}

func runTest(cmd *cobra.Command) error {
	return runAction(cmd, func(ctx context.Context, c *panel.Controller) error {
		_, err := c.Test(ctx)
		return err
	})
}

// runAction runs one controller action with a terminal host. The controller
// has already shown any failure it returns.
func runAction(cmd *cobra.Command, action func(context.Context, *panel.Controller) error) error {
	a, err := openApp(globalOptions(cmd), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.connect(newTerminalHost(cmd.OutOrStdout(), cmd.ErrOrStderr()))

	if err := action(commandContext(cmd), a.controller); err != nil {
		return &reportedError{err: err}
	}
	return nil
}
