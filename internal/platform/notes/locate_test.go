package notes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"readplan/internal/platform/notes"
)

func TestLocate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name, root, path, ref string
		want                  notes.Location
	}{
		{
			name: "file and block fragment",
			path: "Bible/Genesis/Genesis 1.md#^v1",
			ref:  "Genesis 1:1",
			want: notes.Location{NotePath: "Bible/Genesis/Genesis 1.md", Link: "Bible/Genesis/Genesis 1", Anchor: "^v1", Label: "Genesis 1"},
		},
		{
			name: "no extension, heading fragment, root prefix",
			root: "Notes/",
			path: "Psalms/Psalm 23#Verse 1",
			ref:  "Psalm 23:1",
			want: notes.Location{NotePath: "Notes/Psalms/Psalm 23.md", Link: "Notes/Psalms/Psalm 23", Anchor: "Verse 1", Label: "Psalm 23"},
		},
		{
			name: "fragment only",
			path: "#^x",
			ref:  "John 3:16",
			want: notes.Location{NotePath: "john-3-16.md", Link: "john-3-16", Anchor: "^x", Label: "john-3-16"},
		},
		{
			name: "no fragment",
			root: "Notes",
			path: "Notes/Ruth/Ruth 1.md",
			ref:  "Ruth 1:1",
			want: notes.Location{NotePath: "Notes/Ruth/Ruth 1.md", Link: "Notes/Ruth/Ruth 1", Anchor: "^ruth-1-1", Label: "Ruth 1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, notes.Locate(tc.root, tc.path, tc.ref))
		})
	}
}

func TestWikilink(t *testing.T) {
	t.Parallel()
	loc := notes.Locate("", "Bible/Genesis/Genesis 1.md#^v1", "Genesis 1:1")
	assert.Equal(t, "[[Bible/Genesis/Genesis 1#^v1|Genesis 1:1]]", loc.Wikilink("Genesis 1:1"))
	assert.True(t, loc.IsBlockAnchor())
}
