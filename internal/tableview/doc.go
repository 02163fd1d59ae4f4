// Package tableview derives what a table actually shows from a source
// dataset and a small set of view controls.
//
// The derived view is always computed in the same order:
//
//  1. filter: rows whose values contain the applied search text
//     (case-insensitive), always starting from the full source
//  2. sort: stable ordering of the whole filtered set by one column
//  3. paginate: the page-size slice of the sorted set for the current page
//
// Rows carry a stable RowID (their index in the source dataset). Selection
// is keyed by RowID, so sorting, filtering and paging never change which
// logical rows are selected.
//
// An Engine holds the controls and the last derived View. It performs no
// I/O and never blocks; it is not safe for concurrent use, callers that
// share one across goroutines must serialize access themselves.
package tableview
