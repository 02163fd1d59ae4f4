package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set options",
		Long: `Get and set pgrid options stored in config.toml.

Options:
` + config.GenerateHelpText() + `

Examples:
  pgrid config view.page_size          # Get value
  pgrid config view.page_size 25       # Set value
  pgrid config view.page_sizes 10,25,100
  pgrid config --list                  # List all options`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all options")
	cmd.Flags().Bool("path", false, "Print the config file path")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	showPath, _ := cmd.Flags().GetBool("path")
	out := cmd.OutOrStdout()

	if showPath {
		fmt.Fprintln(out, config.Path())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if listAll {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("usage: pgrid config <key> [value]")
	}

	key := args[0]

	// Get or set?
	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return unknownKeyError(key)
		}
		fmt.Fprintln(out, value)
		return nil
	}

	if err := cfg.SetValue(key, args[1]); err != nil {
		return util.NewError("Cannot set " + key).
			WithSuggestions("pgrid config --list   # Show all options").
			Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return util.NewError("Cannot set " + key).Wrap(err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	logger.Debug("config saved", "key", key, "path", config.Path())
	fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("%s set", key)))

	return nil
}

// loadConfig loads and validates the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, util.NewError("Cannot read config").
			WithContext(config.Path()).
			Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, util.NewError("Invalid config").
			WithContext(config.Path()).
			WithSuggestions("pgrid config --list   # Show current values").
			Wrap(err)
	}
	return cfg, nil
}

func unknownKeyError(key string) *util.PgridError {
	return util.NewError("Unknown config key: " + key).
		WithSuggestions("pgrid config --list   # Show all options")
}
