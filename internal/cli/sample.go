package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/dataset"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
)

func newSampleCmd() *cobra.Command {
	var (
		rows   int
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the sample booking dataset",
		Long: `Write the generated sample booking dataset as CSV, JSON, YAML or Parquet.

Examples:
  pgrid sample > bookings.csv
  pgrid sample --rows 200 --format json
  pgrid sample --format parquet -o bookings.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := dataset.ParseFormat(format)
			if f == dataset.FormatUnknown {
				return util.NewError(fmt.Sprintf("Unknown format %q", format)).
					WithMessage("Formats: csv, json, yaml, parquet").
					Wrap(util.ErrUnsupportedFormat)
			}
			if f == dataset.FormatParquet && output == "" {
				return util.NewError("Parquet needs an output file").
					WithSuggestions("pgrid sample --format parquet -o bookings.parquet")
			}

			d := dataset.Sample(rows, time.Now())

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer file.Close()
				out = file
			}

			if err := writeDataset(out, f, d); err != nil {
				return err
			}

			logger.Debug("sample written", "rows", rows, "format", f.String(), "output", output)
			if output != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.SuccessMsg(fmt.Sprintf("Wrote %d bookings to %s", rows, output)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 50, "Number of bookings")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, json, yaml or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func writeDataset(w io.Writer, f dataset.Format, d *dataset.Dataset) error {
	switch f {
	case dataset.FormatJSON:
		return dataset.WriteJSON(w, d)
	case dataset.FormatYAML:
		return dataset.WriteYAML(w, d)
	case dataset.FormatParquet:
		return dataset.WriteParquet(w, d)
	default:
		return dataset.WriteCSV(w, d)
	}
}
