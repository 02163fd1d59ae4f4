package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// tuiAnnotation marks commands that take over the terminal. Their debug
// log goes to --log-file instead of stderr.
const tuiAnnotation = "pgrid/tui"

// logger is replaced in PersistentPreRunE when --verbose is set.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// logCloser closes the debug log file, if one was opened.
var logCloser io.Closer

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pgrid",
		Short: "Browse tabular data in the terminal",
		Long: `pgrid shows tabular data as a searchable, sortable, paginated table
with row selection.

Data can come from CSV, TSV, JSON, YAML or Parquet files, from a SQLite
or PostgreSQL query, or from the built-in sample booking dataset.

For more information, see: https://github.com/imgajeed76/pgrid`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           Version,
		PersistentPreRunE: setupGlobals,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
				logCloser = nil
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("log-file", "pgrid-debug.log", "Debug log file used by the interactive view with --verbose")

	cmd.SetVersionTemplate(fmt.Sprintf("pgrid version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	cmd.AddCommand(
		newVersionCmd(),
		newViewCmd(),
		newPrintCmd(),
		newInfoCmd(),
		newSampleCmd(),
		newConfigCmd(),
		newCompletionCmd(),
	)
	return cmd
}

// Execute runs the root command and renders any error on stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

func printError(w io.Writer, err error) {
	// Check if it's a structured PgridError
	var pgridErr *util.PgridError
	if errors.As(err, &pgridErr) {
		fmt.Fprintln(w, pgridErr.Format())
	} else {
		fmt.Fprintln(w, styles.ErrorMsg(err.Error()))
	}
}

func setupGlobals(cmd *cobra.Command, args []string) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		styles.SetNoColor(true)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	var out io.Writer = cmd.ErrOrStderr()
	if _, ok := cmd.Annotations[tuiAnnotation]; ok {
		path, _ := cmd.Flags().GetString("log-file")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logCloser = f
		out = f
	}

	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("logging enabled", "command", cmd.CommandPath())
	return nil
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pgrid.

To load completions:

Bash:
  $ source <(pgrid completion bash)

Zsh:
  $ pgrid completion zsh > "${fpath[1]}/_pgrid"

Fish:
  $ pgrid completion fish | source

PowerShell:
  PS> pgrid completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pgrid version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
