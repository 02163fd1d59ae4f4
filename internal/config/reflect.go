package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ConfigField represents metadata about a config field extracted from struct tags
type ConfigField struct {
	Key      string // e.g., "view.page_size"
	Default  string // default value as string
	Desc     string // description for help text
	Min      int    // minimum value for int fields (0 = no limit)
	Max      int    // maximum value for int fields (0 = no limit)
	Type     string // "string", "int", "bool" or "[]int"
	Category string // e.g., "view", "columns", "source"
}

// fieldCache caches parsed config fields to avoid repeated reflection
var fieldCache []ConfigField

// getConfigFields extracts all config fields from Config using reflection
func getConfigFields() []ConfigField {
	if fieldCache != nil {
		return fieldCache
	}

	var fields []ConfigField
	extractFields(reflect.TypeOf(Config{}), &fields)

	// Sort by key for consistent ordering
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})

	fieldCache = fields
	return fields
}

// extractFields recursively extracts config fields from a struct
func extractFields(t reflect.Type, fields *[]ConfigField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		configKey := field.Tag.Get("config")
		if configKey == "" {
			// Nested section struct
			if field.Type.Kind() == reflect.Struct {
				extractFields(field.Type, fields)
			}
			continue
		}

		cf := ConfigField{
			Key:      configKey,
			Default:  field.Tag.Get("default"),
			Desc:     field.Tag.Get("desc"),
			Category: strings.Split(configKey, ".")[0],
			Type:     typeName(field.Type),
		}

		// Parse min/max for validation
		if minStr := field.Tag.Get("min"); minStr != "" {
			cf.Min, _ = strconv.Atoi(minStr)
		}
		if maxStr := field.Tag.Get("max"); maxStr != "" {
			cf.Max, _ = strconv.Atoi(maxStr)
		}

		*fields = append(*fields, cf)
	}
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int:
		return "int"
	case reflect.Bool:
		return "bool"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Int {
			return "[]int"
		}
	}
	return "string"
}

// findField finds a config field by key
func findField(key string) *ConfigField {
	key = normalizeKey(key)
	for _, f := range getConfigFields() {
		if f.Key == key {
			return &f
		}
	}
	return nil
}

// normalizeKey handles key aliases
func normalizeKey(key string) string {
	aliases := map[string]string{
		"view.pagesize":        "view.page_size",
		"view.pagesizes":       "view.page_sizes",
		"source.separator":     "source.csv_separator",
		"source.postgres":      "source.postgres_url",
		"columns.select":       "columns.selection",
		"columns.status_badge": "columns.status",
	}
	if normalized, ok := aliases[key]; ok {
		return normalized
	}
	return key
}

// lookupField returns the struct field addressed by key
func lookupField(cfg *Config, key string) (reflect.Value, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	// Find the nested struct by toml tag
	var nestedValue reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == parts[0] {
			nestedValue = v.Field(i)
			break
		}
	}
	if !nestedValue.IsValid() || nestedValue.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	// Find the actual field within the nested struct by config tag
	nestedType := nestedValue.Type()
	for i := 0; i < nestedType.NumField(); i++ {
		if nestedType.Field(i).Tag.Get("config") == key {
			return nestedValue.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// getFieldValue gets a field value from a config struct using reflection
func getFieldValue(cfg *Config, key string) (string, bool) {
	fieldValue, ok := lookupField(cfg, normalizeKey(key))
	if !ok {
		return "", false
	}

	switch fieldValue.Kind() {
	case reflect.String:
		return fieldValue.String(), true
	case reflect.Int:
		return strconv.FormatInt(fieldValue.Int(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(fieldValue.Bool()), true
	case reflect.Slice:
		parts := make([]string, fieldValue.Len())
		for i := range parts {
			parts[i] = strconv.FormatInt(fieldValue.Index(i).Int(), 10)
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}

// setFieldValue sets a field value on a config struct using reflection
func setFieldValue(cfg *Config, key, value string) error {
	key = normalizeKey(key)

	field := findField(key)
	if field == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}

	fieldValue, ok := lookupField(cfg, key)
	if !ok {
		return fmt.Errorf("field not found: %s", key)
	}

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(value)
		return nil

	case reflect.Int:
		intVal, err := parseBounded(field, value)
		if err != nil {
			return err
		}
		fieldValue.SetInt(int64(intVal))
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		fieldValue.SetBool(b)
		return nil

	case reflect.Slice:
		var ints []int
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := parseBounded(field, part)
			if err != nil {
				return err
			}
			if n <= 0 {
				return fmt.Errorf("value %d must be positive", n)
			}
			ints = append(ints, n)
		}
		if len(ints) == 0 {
			return fmt.Errorf("%s needs at least one value", key)
		}
		fieldValue.Set(reflect.ValueOf(ints))
		return nil
	}

	return fmt.Errorf("field not found: %s", key)
}

func parseBounded(field *ConfigField, value string) (int, error) {
	intVal, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value: %s", value)
	}

	// Validate min/max
	if field.Min != 0 && intVal < field.Min {
		return 0, fmt.Errorf("value %d is below minimum %d", intVal, field.Min)
	}
	if field.Max != 0 && intVal > field.Max {
		return 0, fmt.Errorf("value %d exceeds maximum %d", intVal, field.Max)
	}
	return intVal, nil
}

// ListKeys returns all available config keys
func ListKeys() []string {
	fields := getConfigFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// GetFieldsByCategory returns config fields grouped by category
func GetFieldsByCategory() map[string][]ConfigField {
	result := make(map[string][]ConfigField)
	for _, f := range getConfigFields() {
		result[f.Category] = append(result[f.Category], f)
	}
	return result
}

// GenerateHelpText generates help text for config options
func GenerateHelpText() string {
	var sb strings.Builder

	byCategory := GetFieldsByCategory()

	// Define category order and titles
	categories := []struct {
		key   string
		title string
	}{
		{"view", "View"},
		{"columns", "Columns"},
		{"source", "Data sources"},
	}

	for _, cat := range categories {
		fields, ok := byCategory[cat.key]
		if !ok || len(fields) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("  %s:\n", cat.title))
		for _, f := range fields {
			defaultStr := ""
			if f.Default != "" {
				defaultStr = fmt.Sprintf(" (default: %s)", f.Default)
			}
			// Pad key to align descriptions
			sb.WriteString(fmt.Sprintf("    %-24s %s%s\n", f.Key, f.Desc, defaultStr))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
