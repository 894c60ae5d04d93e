package markdown_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readplan/internal/platform/markdown"
)

func TestPatchFrontmatterUpdatesInPlaceAndKeepsOtherFields(t *testing.T) {
	t.Parallel()
	doc := "---\n# tracked by readplan\ntitle: Progress\nlast_order: 3\ntags:\n  - bible\nverses_read: 3 # cached\n---\n\n# Reading Progress\n"

	out, err := markdown.PatchFrontmatter(doc,
		markdown.Field{Key: "last_order", Value: 10},
		markdown.Field{Key: "verses_read", Value: 12},
	)
	require.NoError(t, err)

	assert.Contains(t, out, "# tracked by readplan")
	assert.Contains(t, out, "last_order: 10")
	assert.Contains(t, out, "verses_read: 12 # cached")
	assert.True(t, strings.HasSuffix(out, "\n---\n\n# Reading Progress\n"), out)
	assert.Less(t, strings.Index(out, "title:"), strings.Index(out, "last_order:"))
	assert.Less(t, strings.Index(out, "tags:"), strings.Index(out, "verses_read:"))

	meta, body, err := markdown.SplitFrontmatter(out)
	require.NoError(t, err)
	assert.Equal(t, "Progress", meta["title"])
	assert.Equal(t, 10, meta["last_order"])
	assert.Equal(t, "\n# Reading Progress\n", body)
}

func TestPatchFrontmatterInsertsMissingFields(t *testing.T) {
	t.Parallel()
	doc := "---\ntitle: Progress\n---\nbody\n"
	out, err := markdown.PatchFrontmatter(doc,
		markdown.Field{Key: "start_date", Value: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		markdown.Field{Key: "target_days", Value: 365},
	)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Progress\nstart_date: 2026-01-02\ntarget_days: 365\n---\nbody\n", out)
}

func TestPatchFrontmatterSynthesizesPreamble(t *testing.T) {
	t.Parallel()
	out, err := markdown.PatchFrontmatter("# Reading Progress\n", markdown.Field{Key: "last_order", Value: 0})
	require.NoError(t, err)
	assert.Equal(t, "---\nlast_order: 0\n---\n\n# Reading Progress\n", out)

	empty, err := markdown.PatchFrontmatter("", markdown.Field{Key: "verses_read", Value: 4})
	require.NoError(t, err)
	assert.Equal(t, "---\nverses_read: 4\n---\n", empty)
}

func TestPatchFrontmatterIsIdempotent(t *testing.T) {
	t.Parallel()
	fields := []markdown.Field{{Key: "last_order", Value: 7}, {Key: "verses_read", Value: 7}}
	once, err := markdown.PatchFrontmatter("---\ntitle: x\n---\n\ntext\n", fields...)
	require.NoError(t, err)
	twice, err := markdown.PatchFrontmatter(once, fields...)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPatchFrontmatterReadsCRLFPreamble(t *testing.T) {
	t.Parallel()
	out, err := markdown.PatchFrontmatter("---\r\nlast_order: 3\r\nfoo: bar\r\n---\r\nbody\r\n", markdown.Field{Key: "last_order", Value: 5})
	require.NoError(t, err)
	assert.Equal(t, "---\nlast_order: 5\nfoo: bar\n---\nbody\n", out)

	meta, body, err := markdown.SplitFrontmatter("---\r\ntarget_days: 90\r\n---\r\ntext\r\n")
	require.NoError(t, err)
	assert.Equal(t, 90, meta["target_days"])
	assert.Equal(t, "text\n", body)
}

func TestPatchFrontmatterRejectsNonMapping(t *testing.T) {
	t.Parallel()
	_, err := markdown.PatchFrontmatter("---\n- a\n- b\n---\n", markdown.Field{Key: "k", Value: 1})
	require.Error(t, err)
}

func TestSplitFrontmatterEdgeCases(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.SplitFrontmatter("no preamble\n")
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Equal(t, "no preamble\n", body)

	meta, body, err = markdown.SplitFrontmatter("---\n---\nbody")
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Equal(t, "body", body)

	_, _, err = markdown.SplitFrontmatter("---\nkey: 1\nno close")
	require.Error(t, err)
}
