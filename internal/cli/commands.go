package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"claudia/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	workspaceDir string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "claudia",
	Short: "Claudia - ask Claude about the code in your workspace",
	Long: `Claudia sends your question to Claude together with the active file and
the files it imports, and renders the answer in the terminal.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask Claude a question, with the --file and its related files as context",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Ask failed", runAsk(cmd, strings.Join(args, " ")))
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a file for issues and improvements",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Analysis failed", runAnalyze(cmd))
	},
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Generate documentation for a file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Documentation failed", runDocument(cmd))
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the selected --lines of a file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Explain failed", runExplain(cmd))
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check the connection to the Claude API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "API test failed", runTest(cmd))
	},
}

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Start the interactive panel",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Panel failed", runPanel(cmd))
	},
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the context that would be sent for --file, without calling the API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Context failed", runContext(cmd))
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the source files in the workspace",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Listing files failed", runFiles(cmd))
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.DefaultPath,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Failed to initialize", runInit(cmd))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect claudia configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, "Failed to load config", runConfigShow(cmd))
	},
}

// Execute runs the root command; an interrupt cancels in-flight requests
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "workspace root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	askCmd.Flags().StringP("file", "f", "", "active file sent as context")
	analyzeCmd.Flags().StringP("file", "f", "", "file to analyze")
	documentCmd.Flags().StringP("file", "f", "", "file to document")
	explainCmd.Flags().StringP("file", "f", "", "file containing the code")
	explainCmd.Flags().StringP("lines", "l", "", "selected lines, start:end (1-based, inclusive)")
	panelCmd.Flags().StringP("file", "f", "", "file to open at start")
	panelCmd.Flags().StringP("lines", "l", "", "initial selection, start:end")
	contextCmd.Flags().StringP("file", "f", "", "focal file")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	_ = contextCmd.MarkFlagRequired("file")

	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// reportedError marks failures the host already showed to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func exitOnError(cmd *cobra.Command, action string, err error) {
	if err == nil {
		return
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(fmt.Sprintf("%s: %v", action, err)))
	}
	os.Exit(1)
}

// globalOptions reads the persistent flags plus the command's own --file and
// --lines, when it defines them
func globalOptions(cmd *cobra.Command) options {
	opts := options{
		configPath: cfgFile,
		workspace:  workspaceDir,
		verbose:    verbose,
	}
	if f := cmd.Flags().Lookup("file"); f != nil {
		opts.file = f.Value.String()
	}
	if f := cmd.Flags().Lookup("lines"); f != nil {
		opts.lines = f.Value.String()
	}
	return opts
}
