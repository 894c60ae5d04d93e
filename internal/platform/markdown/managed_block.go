package markdown

import "strings"

// ReplaceManagedBlock swaps the text between startMarker and endMarker for
// generated, or appends a new block when the document has none. A start
// marker whose end marker was deleted claims the rest of the document, so
// repeated renders never stack blocks.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(body, startMarker)
	if start >= 0 {
		rest := body[start:]
		if end := strings.Index(rest, endMarker); end >= 0 {
			return body[:start] + block + rest[end+len(endMarker):]
		}
		return body[:start] + block + "\n"
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
