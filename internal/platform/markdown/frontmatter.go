package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	separator      = "---\n"
	closeSeparator = "\n---\n"
)

func SplitFrontmatter(content string) (map[string]any, string, error) {
	raw, body, ok, err := splitRaw(content)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return map[string]any{}, content, nil
	}

	decoded := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, body, nil
}

func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// splitRaw separates the raw preamble text from the body. ok is false when
// the document has no preamble at all. A CRLF document is read with LF
// line endings.
func splitRaw(content string) (raw, body string, ok bool, err error) {
	if strings.HasPrefix(content, "---\r\n") {
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}
	if !strings.HasPrefix(content, separator) {
		return "", content, false, nil
	}
	rest := strings.TrimPrefix(content, separator)
	if strings.HasPrefix(rest, separator) {
		return "", strings.TrimPrefix(rest, separator), true, nil
	}
	idx := strings.Index(rest, closeSeparator)
	if idx < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return strings.TrimSuffix(rest, "\n---"), "", true, nil
		}
		return "", "", false, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	return rest[:idx], rest[idx+len(closeSeparator):], true, nil
}
