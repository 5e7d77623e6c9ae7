package cli

import (
	"fmt"
	"os"

	"claudia/internal/config"

	"github.com/spf13/cobra"
)

func runInit(cmd *cobra.Command) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := os.WriteFile(path, []byte(config.DefaultFile), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render("✨ Created "+path))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set api_key, or export CLAUDIA_API_KEY")
	fmt.Fprintln(out, "  2. Run: claudia test")
	fmt.Fprintln(out, "  3. Ask: claudia ask --file main.ts \"what does this do?\"")
	return nil
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Current configuration:"))
	fmt.Fprintf(out, "├─ API Key: %s\n", cfg.MaskedAPIKey())
	fmt.Fprintf(out, "├─ Model: %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "├─ Max Tokens: %d\n", cfg.LLM.MaxTokens)
	fmt.Fprintf(out, "├─ Endpoint: %s\n", cfg.LLM.Endpoint)
	fmt.Fprintf(out, "├─ Max File Size: %d\n", cfg.Context.MaxFileSize)
	fmt.Fprintf(out, "├─ Max Total Size: %d\n", cfg.Context.MaxTotalSize)
	fmt.Fprintf(out, "├─ Max Files: %d\n", cfg.Context.MaxFiles)
	fmt.Fprintf(out, "├─ Ignored Directories: %v\n", cfg.Context.IgnoredDirectories)
	fmt.Fprintf(out, "└─ Log Level: %s\n", cfg.Log.Level)
	return nil
}
