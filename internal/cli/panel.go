package cli

import (
	"claudia/internal/tui"

	"github.com/spf13/cobra"
)

// runPanel starts the interactive panel. Logs go to log.file only, since
// the panel owns the terminal.
func runPanel(cmd *cobra.Command) error {
	a, err := openApp(globalOptions(cmd), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	bridge := tui.NewBridge()
	a.connect(bridge)

	model := tui.NewModel(commandContext(cmd), a.controller, a.editor, bridge, newRenderer())
	return tui.Run(model)
}
