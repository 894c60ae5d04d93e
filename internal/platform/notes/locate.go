// Package notes maps plan locators onto vault notes.
package notes

import (
	"path"
	"strings"

	"readplan/internal/platform/slug"
)

// Location is where a plan item lives in the vault.
type Location struct {
	// NotePath is the vault-relative file, always ending in ".md".
	NotePath string
	// Link is NotePath without the extension, as used inside [[wikilinks]].
	Link string
	// Anchor is the heading or block id ("^v1") inside the note.
	Anchor string
	// Label names the note for display and grouping.
	Label string
}

// Locate resolves an item path such as "Bible/Genesis/Genesis 1.md#^v1".
// Paths without a file part fall back to a note named after the ref, and
// paths without a fragment get a block anchor slugged from the ref.
func Locate(root, itemPath, ref string) Location {
	file, fragment, _ := strings.Cut(strings.TrimSpace(itemPath), "#")
	file = strings.Trim(strings.ReplaceAll(file, "\\", "/"), "/")
	if file == "" {
		file = slug.Make(ref)
	}
	link := strings.TrimSuffix(file, ".md")
	if root = strings.Trim(strings.ReplaceAll(root, "\\", "/"), "/"); root != "" && !strings.HasPrefix(link, root+"/") {
		link = root + "/" + link
	}
	anchor := strings.TrimSpace(fragment)
	if anchor == "" {
		anchor = "^" + slug.Make(ref)
	}
	return Location{
		NotePath: link + ".md",
		Link:     link,
		Anchor:   anchor,
		Label:    path.Base(link),
	}
}

// Wikilink renders an Obsidian link to the anchor with the ref as alias.
func (l Location) Wikilink(ref string) string {
	return "[[" + l.Link + "#" + l.Anchor + "|" + ref + "]]"
}

// IsBlockAnchor reports whether the anchor targets a block id instead of a
// heading.
func (l Location) IsBlockAnchor() bool {
	return strings.HasPrefix(l.Anchor, "^")
}
