package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/dataset"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
)

func newInfoCmd() *cobra.Command {
	var sf sourceFlags

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Describe a dataset",
		Long: `Show the columns of a dataset, the type of values each one holds and
how many rows are in each status.

Examples:
  pgrid info bookings.csv
  pgrid info --sample 50
  pgrid info --sqlite app.db --query 'SELECT * FROM bookings'`,
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

			printInfo(cmd.OutOrStdout(), d, cfg.Columns.Status, cfg.Columns.Selection)
			return nil
		},
	}

	addSourceFlags(cmd, &sf)

	return cmd
}

func printInfo(w io.Writer, d *dataset.Dataset, statusCol, selectionCol string) {
	fmt.Fprintln(w, styles.Boldf("%s", d.Name))
	fmt.Fprintf(w, "  ID:      %s %s\n", util.ShortID(d.ID), styles.Mute("(loaded "+d.LoadedAt.Format(time.TimeOnly)+")"))
	fmt.Fprintf(w, "  Rows:    %d\n", d.Len())
	fmt.Fprintf(w, "  Columns: %d\n", len(d.Columns))

	if d.Len() == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.WarningMsg("No rows"))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.SectionHeader("Columns"))
	width := 0
	for _, col := range d.Columns {
		width = max(width, len([]rune(col)))
	}
	for _, col := range d.Columns {
		kind, filled := columnKind(d, col)
		desc := fmt.Sprintf("%-8s %d/%d filled", kind, filled, d.Len())
		if col == selectionCol {
			desc = "checkbox"
		}
		fmt.Fprintln(w, styles.HelpLine(util.Pad(col, width), desc))
	}

	counts, order := statusCounts(d, statusCol)
	if len(order) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.SectionHeader(statusCol))
	for _, status := range order {
		fmt.Fprintf(w, "  %s %d\n", styles.StatusBadge(status, util.Pad(status, 10)), counts[status])
	}
}

// columnKind names the type of the values in col, "mixed" when they
// differ, and counts the non-missing ones.
func columnKind(d *dataset.Dataset, col string) (string, int) {
	kind := ""
	filled := 0
	for _, rec := range d.Records {
		k := cellKind(rec[col])
		if k == "" {
			continue
		}
		filled++
		switch kind {
		case "":
			kind = k
		case k:
		default:
			kind = "mixed"
		}
	}
	if kind == "" {
		kind = "empty"
	}
	return kind, filled
}

func cellKind(v any) string {
	switch v.(type) {
	case nil:
		return ""
	case string:
		return "text"
	case int64, uint64:
		return "integer"
	case float32, float64:
		return "number"
	case bool:
		return "boolean"
	case time.Time:
		return "time"
	default:
		return "other"
	}
}

// statusCounts counts rows per status value, in order of first appearance.
func statusCounts(d *dataset.Dataset, statusCol string) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, rec := range d.Records {
		v, ok := rec[statusCol]
		if !ok || v == nil {
			continue
		}
		s := dataset.FormatCell(v)
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	return counts, order
}
