package cli

import (
	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/ui/table"
)

func newViewCmd() *cobra.Command {
	var (
		sf      sourceFlags
		vf      viewFlags
		noPager bool
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a dataset interactively",
		Long: `Open a dataset in an interactive table.

Keys:
  ↑/↓ ←/→     Move between rows and columns
  s / S       Sort by the active column / clear sort
  /           Search (enter applies, esc clears)
  space       Select the row under the cursor
  a           Clear the selection
  n / p       Next / previous page
  + / -       Bigger / smaller pages
  enter / H   Expand / hide the active column
  y / Y       Copy the row / the selected rows
  J / R / P   Quit and print the page as JSON / raw / table
  q           Quit

When stdout is not a terminal the page is printed as a plain table.

Examples:
  pgrid view bookings.csv
  pgrid view --sample 50
  pgrid view --sqlite app.db --query 'SELECT * FROM bookings'
  pgrid view --postgres postgres://localhost/app -q 'SELECT * FROM orders'`,
		Args:        maxOneArg,
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			d, err := loadSource(cmd.Context(), cfg, args, sf)
			if err != nil {
				return err
			}

			e, err := newEngine(cfg, d, vf)
			if err != nil {
				return err
			}

			return table.Display(cmd.OutOrStdout(), e, table.DisplayOptions{
				Title:   d.Name,
				NoPager: noPager,
			})
		},
	}

	addSourceFlags(cmd, &sf)
	addViewFlags(cmd, &vf)
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "Print a plain table instead of the interactive view")

	return cmd
}
