package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Field is one scalar preamble entry to set. Value may be a string, int,
// bool, float64 or time.Time (written as a calendar date).
type Field struct {
	Key   string
	Value any
}

// PatchFrontmatter merge-patches scalar fields into the document preamble.
// Existing keys are updated in place, unknown keys are appended after the
// last entry, and unrelated entries keep their order and comments. A
// document without a preamble gets one.
func PatchFrontmatter(content string, fields ...Field) (string, error) {
	if len(fields) == 0 {
		return content, nil
	}
	raw, body, ok, err := splitRaw(content)
	if err != nil {
		return "", err
	}
	if !ok {
		body = content
		if body != "" && !strings.HasPrefix(body, "\n") {
			body = "\n" + body
		}
	}

	doc := yaml.Node{}
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
			return "", fmt.Errorf("unmarshal frontmatter: %w", err)
		}
	}
	mapping, err := rootMapping(&doc)
	if err != nil {
		return "", err
	}
	for _, field := range fields {
		value, err := scalarNode(field.Value)
		if err != nil {
			return "", fmt.Errorf("frontmatter field %s: %w", field.Key, err)
		}
		setMappingValue(mapping, field.Key, value)
	}

	buf := bytes.Buffer{}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	out := strings.Builder{}
	out.WriteString(separator)
	out.Write(buf.Bytes())
	out.WriteString(separator)
	out.WriteString(body)
	return out.String(), nil
}

func rootMapping(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
	}
	if doc.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("frontmatter: unexpected node kind %d", doc.Kind)
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a key/value mapping")
	}
	return root, nil
}

func setMappingValue(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		current := mapping.Content[i+1]
		current.Kind = yaml.ScalarNode
		current.Tag = value.Tag
		current.Value = value.Value
		current.Style = 0
		current.Content = nil
		current.Anchor = ""
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func scalarNode(v any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode}
	switch x := v.(type) {
	case string:
		node.Tag, node.Value = "!!str", x
	case int:
		node.Tag, node.Value = "!!int", strconv.Itoa(x)
	case int64:
		node.Tag, node.Value = "!!int", strconv.FormatInt(x, 10)
	case bool:
		node.Tag, node.Value = "!!bool", strconv.FormatBool(x)
	case float64:
		node.Tag, node.Value = "!!float", strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		node.Tag, node.Value = "!!timestamp", x.Format(dateLayout)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
	return node, nil
}
