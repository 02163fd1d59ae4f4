package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/dataset"
	"github.com/imgajeed76/pgrid/internal/tableview"
	"github.com/imgajeed76/pgrid/internal/util"
)

// viewFlags set the table configuration and the initial controls.
type viewFlags struct {
	search       string
	sort         string
	desc         bool
	page         int
	pageSize     int
	noSort       bool
	noPagination bool
}

func addViewFlags(cmd *cobra.Command, vf *viewFlags) {
	cmd.Flags().StringVarP(&vf.search, "search", "s", "", "Show only rows containing this text")
	cmd.Flags().StringVar(&vf.sort, "sort", "", "Sort by this column")
	cmd.Flags().BoolVar(&vf.desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&vf.page, "page", "p", 1, "Page to show")
	cmd.Flags().IntVarP(&vf.pageSize, "page-size", "n", 0, "Rows per page (default: view.page_size)")
	cmd.Flags().BoolVar(&vf.noSort, "no-sort", false, "Disable sorting")
	cmd.Flags().BoolVar(&vf.noPagination, "no-pagination", false, "Show every row on one page")
}

// maxOneArg accepts at most one positional file argument.
func maxOneArg(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return util.TooManyArgumentsError(1, len(args))
	}
	return nil
}

// engineConfig merges config defaults and flags into a table config.
func engineConfig(cfg *config.Config, d *dataset.Dataset, vf viewFlags) tableview.Config {
	pageSize := cfg.View.PageSize
	if vf.pageSize > 0 {
		pageSize = vf.pageSize
	}
	return tableview.Config{
		Columns:         d.Columns,
		Sortable:        cfg.View.Sortable && !vf.noSort,
		Pagination:      cfg.View.Pagination && !vf.noPagination,
		PageSizes:       cfg.View.PageSizes,
		DefaultPageSize: pageSize,
		SelectionColumn: cfg.Columns.Selection,
		StatusColumn:    cfg.Columns.Status,
	}
}

// newEngine builds the engine for d and applies the initial controls.
func newEngine(cfg *config.Config, d *dataset.Dataset, vf viewFlags) (*tableview.Engine, error) {
	tc := engineConfig(cfg, d, vf)
	e, err := tableview.New(d.Records, tc, tableview.WithLogger(logger.With("dataset", d.Name)))
	if err != nil {
		if errors.Is(err, tableview.ErrInvalidPageSize) {
			return nil, util.InvalidPageSizeError(tc.DefaultPageSize, cfg.View.PageSizes, err)
		}
		return nil, util.LoadError(d.Name, err)
	}

	if vf.search != "" {
		e.SetSearchText(vf.search)
		e.ApplyFilter()
	}

	if vf.sort != "" {
		if err := e.SetSort(vf.sort); err != nil {
			return nil, util.NewError(fmt.Sprintf("Unknown column %q", vf.sort)).
				WithMessage("Columns: " + strings.Join(d.Columns, ", ")).
				Wrap(err)
		}
		if vf.desc && e.Sort().Direction == tableview.Ascending {
			// a second call on the same column flips the direction
			_ = e.SetSort(vf.sort)
		}
	}

	if vf.page > 1 {
		e.SetPage(vf.page)
	}
	return e, nil
}
