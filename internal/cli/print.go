package cli

import (
	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/tableview"
	"github.com/imgajeed76/pgrid/internal/ui/table"
	"github.com/imgajeed76/pgrid/internal/util"
)

func newPrintCmd() *cobra.Command {
	var (
		sf       sourceFlags
		vf       viewFlags
		selected []int
		jsonOut  bool
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "print [file]",
		Short: "Print one page of a dataset",
		Long: `Print one page of a dataset without the interactive view.

The page is chosen after searching and sorting, the same way the
interactive view does it. Row IDs given to --select are the "id" values
printed by --json.

Examples:
  pgrid print bookings.csv --search example1 --sort "PURCHASE ID" --desc
  pgrid print --sample 50 --page 5
  pgrid print --sample 50 --all-pages --raw | cut -f2
  pgrid print data.parquet --select 0,4 --json`,
		Args: maxOneArg,
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

			for _, id := range selected {
				if _, ok := e.Row(tableview.RowID(id)); !ok {
					return util.NewError("Unknown row ID").
						WithMessage("Row IDs run from 0 to the row count minus one").
						WithSuggestions("pgrid print --json ...   # Show row IDs")
				}
				if !e.IsSelected(tableview.RowID(id)) {
					e.ToggleSelection(tableview.RowID(id))
				}
			}

			return table.Display(cmd.OutOrStdout(), e, table.DisplayOptions{
				Title:   d.Name,
				JSON:    jsonOut,
				Raw:     raw,
				NoPager: true,
			})
		},
	}

	addSourceFlags(cmd, &sf)
	addViewFlags(cmd, &vf)
	cmd.Flags().BoolVar(&vf.noPagination, "all-pages", false, "Print every row (same as --no-pagination)")
	cmd.Flags().IntSliceVar(&selected, "select", nil, "Mark rows as selected by ID")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the page as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Output tab-separated values (for piping)")
	cmd.MarkFlagsMutuallyExclusive("json", "raw")

	return cmd
}
