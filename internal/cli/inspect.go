package cli

import (
	"fmt"

	"claudia/internal/prompt"

	"github.com/spf13/cobra"
)

// runContext prints the system message the controller would send for --file
func runContext(cmd *cobra.Command) error {
	a, err := openApp(globalOptions(cmd), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	doc, ok := a.editor.ActiveDocument()
	if !ok {
		return fmt.Errorf("no file given, use --file")
	}

	bundle, err := a.gatherer.Gather(commandContext(cmd), doc.Path, a.cfg.Context.MaxFiles)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, prompt.Format(bundle))

	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut)
	fmt.Fprintln(errOut, titleStyle.Render(fmt.Sprintf("%d files, %d bytes", len(bundle), bundle.TotalSize())))
	for i, f := range bundle {
		fmt.Fprintln(errOut, sourceStyle.Render(fmt.Sprintf("  %d. %s (%d bytes)", i+1, f.Path, len(f.Content))))
	}
	return nil
}

func runFiles(cmd *cobra.Command) error {
	a, err := openApp(globalOptions(cmd), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	files, err := a.gatherer.SourceFiles(commandContext(cmd))
	if err != nil {
		return err
	}

	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}
