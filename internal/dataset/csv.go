package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imgajeed76/pgrid/internal/util"
)

// DetectSeparator guesses the CSV separator from the first line of path,
// picking the most frequent of comma, semicolon, tab and pipe.
func DetectSeparator(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return ',', fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return ',', nil
	}
	return sniffSeparator(scanner.Text()), nil
}

func sniffSeparator(line string) rune {
	best, bestCount := ',', 0
	// fixed order so ties are deterministic
	for _, sep := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

// ReadCSV reads a CSV stream whose first record is the header.
// Cells are repaired to valid UTF-8 and typed with ParseCell.
func ReadCSV(name string, r io.Reader, sep rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, util.ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(util.ToValidUTF8(h))
	}
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}

	var records []map[string]any
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record %d: %w", len(records)+1, err)
		}

		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(fields) {
				rec[col] = ParseCell(util.ToValidUTF8(fields[i]))
			}
		}
		records = append(records, rec)
	}

	return New(name, columns, records), nil
}

// WriteCSV writes d with a header row. Missing values become empty cells.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return err
	}
	for _, row := range d.Rows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
