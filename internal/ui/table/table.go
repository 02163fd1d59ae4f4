// Package table renders a tableview.Engine. It supports an interactive
// TUI (sorting, search, selection, paging, column expand/hide, horizontal
// scrolling), plain text tables, JSON output, and raw tab-separated output.
//
// Every renderer shows the engine's current page; the engine decides which
// rows that is.
package table

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/imgajeed76/pgrid/internal/tableview"
)

// DisplayOptions controls how a table is rendered.
type DisplayOptions struct {
	// Title is shown in the interactive TUI header.
	Title string
	// JSON outputs the page as a JSON document.
	JSON bool
	// Raw outputs the page as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
}

// Display picks the right output mode based on options and environment,
// then renders the engine's current page to w. The TUI is only used when
// stdout is a terminal.
func Display(w io.Writer, e *tableview.Engine, opts DisplayOptions) error {
	if opts.Raw {
		return WriteRaw(w, e)
	}

	if opts.JSON {
		return WriteJSON(w, e)
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if !isTTY || opts.NoPager {
		return WritePlain(w, e)
	}

	return Run(opts.Title, e, w)
}
