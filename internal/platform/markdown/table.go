package markdown

import (
	"regexp"
	"strings"
)

var separatorCell = regexp.MustCompile(`^:?-+:?$`)

// AppendTableRows appends rows to the pipe table introduced by header. When
// the document has no such table, header and separator are emitted first.
// Rows land right after the last line of the existing table so trailing
// prose stays below it.
func AppendTableRows(content string, header []string, rows [][]string) string {
	if len(rows) == 0 {
		return content
	}
	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		rendered = append(rendered, renderRow(row))
	}

	lines := strings.Split(content, "\n")
	headerAt := findHeader(lines, header)
	if headerAt < 0 {
		table := renderRow(header) + "\n" + renderSeparator(len(header)) + "\n" + strings.Join(rendered, "\n") + "\n"
		if strings.TrimSpace(content) == "" {
			return table
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + table
	}

	last := headerAt
	for i := headerAt + 1; i < len(lines); i++ {
		if !isTableLine(lines[i]) {
			break
		}
		last = i
	}
	out := make([]string, 0, len(lines)+len(rendered)+1)
	out = append(out, lines[:last+1]...)
	out = append(out, rendered...)
	tail := lines[last+1:]
	if len(tail) == 0 {
		tail = []string{""}
	}
	out = append(out, tail...)
	return strings.Join(out, "\n")
}

// ParseTable returns the data rows of the table introduced by header, cell
// text unescaped and trimmed. A missing table yields nil.
func ParseTable(content string, header []string) [][]string {
	lines := strings.Split(content, "\n")
	headerAt := findHeader(lines, header)
	if headerAt < 0 {
		return nil
	}
	var rows [][]string
	for i := headerAt + 1; i < len(lines); i++ {
		if !isTableLine(lines[i]) {
			break
		}
		cells := splitRow(lines[i])
		if isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

func HasTableHeader(content string, header []string) bool {
	return findHeader(strings.Split(content, "\n"), header) >= 0
}

func findHeader(lines, header []string) int {
	for i, line := range lines {
		if !isTableLine(line) {
			continue
		}
		cells := splitRow(line)
		if len(cells) != len(header) {
			continue
		}
		match := true
		for j := range cells {
			if !strings.EqualFold(cells[j], header[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !separatorCell.MatchString(cell) {
			return false
		}
	}
	return true
}

func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = strings.TrimSuffix(line, "|")
	}
	var cells []string
	cur := strings.Builder{}
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func renderRow(cells []string) string {
	escaped := make([]string, 0, len(cells))
	for _, cell := range cells {
		escaped = append(escaped, escapeCell(cell))
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}

func renderSeparator(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "---"
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\r", " ")
	cell = strings.ReplaceAll(cell, "\n", " ")
	return strings.ReplaceAll(cell, "|", `\|`)
}
