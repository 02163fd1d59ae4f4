package dataset

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a sequence of mappings, a single mapping, or a mapping
// with "columns" and "rows" keys. Key order in the document is kept as
// column order.
func ParseYAML(name string, data []byte) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return New(name, nil, nil), nil
	}

	root := doc.Content[0]
	var cols columnCollector
	var rowNodes []*yaml.Node

	switch root.Kind {
	case yaml.SequenceNode:
		rowNodes = root.Content
	case yaml.MappingNode:
		columnsNode, rowsNode := mappingValue(root, "columns"), mappingValue(root, "rows")
		if columnsNode != nil && rowsNode != nil && rowsNode.Kind == yaml.SequenceNode {
			var names []string
			if err := columnsNode.Decode(&names); err != nil {
				return nil, fmt.Errorf("failed to parse YAML columns: %w", err)
			}
			for _, n := range names {
				cols.add(n)
			}
			rowNodes = rowsNode.Content
		} else {
			rowNodes = []*yaml.Node{root}
		}
	default:
		return nil, fmt.Errorf("failed to parse YAML: expected a sequence or mapping, got %s", root.Tag)
	}

	records := make([]map[string]any, 0, len(rowNodes))
	for i, n := range rowNodes {
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("failed to parse YAML row %d: expected a mapping", i)
		}
		rec := make(map[string]any, len(n.Content)/2)
		for j := 0; j+1 < len(n.Content); j += 2 {
			key := n.Content[j].Value
			v, err := yamlCell(n.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("failed to parse YAML row %d, key %q: %w", i, key, err)
			}
			cols.add(key)
			rec[key] = v
		}
		records = append(records, rec)
	}

	return New(name, cols.columns, records), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func yamlCell(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		out, err := yaml.Marshal(n)
		if err != nil {
			return nil, err
		}
		return string(out), nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case uint64:
		return Unsigned(x), nil
	default:
		return x, nil
	}
}

// WriteYAML writes d as a mapping with "columns" and "rows", rows keeping
// column order.
func WriteYAML(w io.Writer, d *Dataset) error {
	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range d.Records {
		row := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range d.Columns {
			v, ok := rec[col]
			if !ok {
				continue
			}
			var valNode yaml.Node
			if err := valNode.Encode(v); err != nil {
				return fmt.Errorf("failed to encode %q: %w", col, err)
			}
			row.Content = append(row.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: col},
				&valNode,
			)
		}
		rows.Content = append(rows.Content, row)
	}

	var columns yaml.Node
	if err := columns.Encode(d.Columns); err != nil {
		return err
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "columns"}, &columns,
		{Kind: yaml.ScalarNode, Value: "rows"}, rows,
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
