package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// envelope is the ordered form written by WriteJSON: explicit column order
// plus row objects.
type envelope struct {
	Columns []string          `json:"columns"`
	Rows    []json.RawMessage `json:"rows"`
}

// ParseJSON reads an array of objects, a single object, or an envelope
// {"columns": [...], "rows": [...]}. Without an envelope, columns are
// ordered by first appearance in the objects.
func ParseJSON(name string, data []byte) (*Dataset, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to parse JSON: empty input")
	}

	var raws []json.RawMessage
	var cols columnCollector

	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err == nil && env.Columns != nil && env.Rows != nil {
			raws = env.Rows
			for _, c := range env.Columns {
				cols.add(c)
			}
		} else {
			raws = []json.RawMessage{data}
		}
	default:
		return nil, fmt.Errorf("failed to parse JSON: expected an array or object")
	}

	records := make([]map[string]any, 0, len(raws))
	for i, raw := range raws {
		keys, rec, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON row %d: %w", i, err)
		}
		for _, k := range keys {
			cols.add(k)
		}
		records = append(records, rec)
	}

	return New(name, cols.columns, records), nil
}

// decodeObject decodes one JSON object, returning its keys in document
// order alongside the values.
func decodeObject(raw json.RawMessage) ([]string, map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	rec := make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = jsonCell(v)
	}
	return keys, rec, nil
}

// jsonCell turns a decoded JSON value into a cell value. Nested arrays and
// objects are kept as compact JSON text.
func jsonCell(v any) any {
	switch x := v.(type) {
	case nil, string, bool:
		return x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return u
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	}
}

// WriteJSON writes d as an envelope so column order survives a round trip.
func WriteJSON(w io.Writer, d *Dataset) error {
	rows := make([]json.RawMessage, len(d.Records))
	for i, rec := range d.Records {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		rows[i] = b
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope{Columns: d.Columns, Rows: rows})
}
