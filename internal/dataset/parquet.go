package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// LoadParquet reads a whole Parquet file through Arrow.
func LoadParquet(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer table.Release()

	return fromArrowTable(filepath.Base(path), table), nil
}

func fromArrowTable(name string, table arrow.Table) *Dataset {
	schema := table.Schema()
	columns := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = field.Name
	}

	records := make([]map[string]any, table.NumRows())
	for i := range records {
		records[i] = make(map[string]any, len(columns))
	}

	for c, col := range columns {
		row := 0
		for _, chunk := range table.Column(c).Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				records[row][col] = arrowCell(chunk, i)
				row++
			}
		}
	}

	return New(name, columns, records)
}

// arrowCell extracts one value, keeping numbers, bools and timestamps
// typed and falling back to Arrow's string form for everything else.
func arrowCell(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}

	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return Unsigned(a.Value(i))
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	default:
		return arr.ValueStr(i)
	}
}

// WriteParquet writes d as a Snappy-compressed Parquet file. Each column
// gets the narrowest Arrow type that holds all of its values; mixed
// columns are written as strings.
func WriteParquet(w io.Writer, d *Dataset) error {
	mem := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(d.Columns))
	for i, col := range d.Columns {
		fields[i] = arrow.Field{Name: col, Type: columnType(d.Records, col), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, col := range d.Columns {
		fb := b.Field(i)
		for _, rec := range d.Records {
			appendCell(fb, rec[col])
		}
	}

	rec := b.NewRecord()
	defer rec.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	return writer.Close()
}

func columnType(records []map[string]any, col string) arrow.DataType {
	var ints, uints, negatives, floats, bools, times, other int
	for _, rec := range records {
		switch x := rec[col].(type) {
		case nil:
		case int64:
			ints++
			if x < 0 {
				negatives++
			}
		case uint64:
			uints++
		case float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			other++
		}
	}

	switch {
	case other > 0:
		return arrow.BinaryTypes.String
	case bools > 0:
		if ints+uints+floats+times > 0 {
			return arrow.BinaryTypes.String
		}
		return arrow.FixedWidthTypes.Boolean
	case times > 0:
		if ints+uints+floats > 0 {
			return arrow.BinaryTypes.String
		}
		return arrow.FixedWidthTypes.Timestamp_us
	case floats > 0:
		return arrow.PrimitiveTypes.Float64
	case uints > 0:
		if negatives > 0 {
			return arrow.BinaryTypes.String
		}
		return arrow.PrimitiveTypes.Uint64
	case ints > 0:
		return arrow.PrimitiveTypes.Int64
	default:
		return arrow.BinaryTypes.String
	}
}

func appendCell(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch fb := b.(type) {
	case *array.Int64Builder:
		fb.Append(v.(int64))
	case *array.Uint64Builder:
		switch x := v.(type) {
		case int64:
			fb.Append(uint64(x))
		case uint64:
			fb.Append(x)
		}
	case *array.Float64Builder:
		switch x := v.(type) {
		case int64:
			fb.Append(float64(x))
		case uint64:
			fb.Append(float64(x))
		case float64:
			fb.Append(x)
		}
	case *array.BooleanBuilder:
		fb.Append(v.(bool))
	case *array.TimestampBuilder:
		fb.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.StringBuilder:
		fb.Append(FormatCell(v))
	default:
		b.AppendNull()
	}
}
