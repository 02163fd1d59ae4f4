package tableview

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// kind orders values of different types against each other. Missing
// values sort before everything else.
type kind int

const (
	kindMissing kind = iota
	kindBool
	kindNumber
	kindTime
	kindString
)

// normalizeValue maps an accepted cell value onto the small set of types
// the engine compares: nil, bool, int64, uint64, float64, time.Time and
// string. uint64 is only used above math.MaxInt64. Named types (status
// enums and the like) reduce to their underlying kind.
func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case bool:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return unsigned(uint64(x)), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return unsigned(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case time.Time:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsigned(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidValue, v)
}

func unsigned(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindMissing
	case bool:
		return kindBool
	case int64, uint64, float64:
		return kindNumber
	case time.Time:
		return kindTime
	default:
		return kindString
	}
}

// compareValues returns -1, 0 or +1 using the natural ordering of the
// values' type. Values of different kinds are ordered by kind.
func compareValues(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindMissing:
		return 0
	case kindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case kindNumber:
		return compareNumbers(a, b)
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	default:
		return cmp.Compare(a.(string), b.(string))
	}
}

// compareNumbers compares integers exactly and falls back to float64 once
// a float is involved. A uint64 is always above every int64.
func compareNumbers(a, b any) int {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y)
		case uint64:
			return -1
		}
	case uint64:
		switch y := b.(type) {
		case uint64:
			return cmp.Compare(x, y)
		case int64:
			return 1
		}
	}
	return cmp.Compare(toFloat(a), toFloat(b))
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// FormatValue returns the display string of a normalized cell value. It is
// also the text that search matches against. Missing values format as "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
