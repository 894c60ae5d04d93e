package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// checkedEntry matches the first checkbox on a line and the idx token that
// follows it anywhere later on the same line.
var checkedEntry = regexp.MustCompile(`\[([ xX])\].*?\(idx:(\d+)\)`)

// ExtractCompleted returns the distinct indices of checked entries in
// ascending order.
func ExtractCompleted(text string) []int {
	seen := map[int]struct{}{}
	for _, line := range strings.Split(text, "\n") {
		match := checkedEntry.FindStringSubmatch(line)
		if match == nil || match[1] == " " {
			continue
		}
		idx, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		seen[idx] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

type TargetInput struct {
	Plan         []PlanItem
	FirstUnread  int
	TodayCount   int
	PreviewCount int
	VersesRead   int
	// Total is the schedule's verse count; zero falls back to the plan length.
	Total        int
	Pacing       PacingResult
	NotesRoot    string
}

// RenderTargetList produces today's checklist followed by a collapsed
// preview of what comes next. Identical input renders identical lines.
func RenderTargetList(in TargetInput) []string {
	start := min(max(in.FirstUnread, 0), len(in.Plan))
	if start >= len(in.Plan) {
		return []string{
			"## Reading plan complete",
			fmt.Sprintf("All %d items read.", len(in.Plan)),
		}
	}
	end := min(start+max(in.TodayCount, 0), len(in.Plan))
	total := in.Total
	if total <= 0 {
		total = len(in.Plan)
	}

	lines := []string{
		fmt.Sprintf("## Today: %d %s", end-start, plural(end-start, "verse", "verses")),
		fmt.Sprintf("Read %d of %d · expected %d by today · pace %d/day", in.VersesRead, total, in.Pacing.Expected, in.Pacing.Pace),
		"",
	}
	lastLabel := ""
	for idx := start; idx < end; idx++ {
		item := in.Plan[idx]
		loc := item.Location(in.NotesRoot)
		if idx == start || loc.Label != lastLabel {
			lines = append(lines, "### "+loc.Label)
			lastLabel = loc.Label
		}
		lines = append(lines, fmt.Sprintf("- [ ] %s (idx:%d)", loc.Wikilink(item.Ref), idx))
	}

	previewEnd := min(end+max(in.PreviewCount, 0), len(in.Plan))
	if previewEnd > end {
		lines = append(lines, "", fmt.Sprintf("> [!note]- Up next (%d)", previewEnd-end))
		lastLabel = ""
		for idx := end; idx < previewEnd; idx++ {
			item := in.Plan[idx]
			loc := item.Location(in.NotesRoot)
			if idx == end || loc.Label != lastLabel {
				lines = append(lines, "> **"+loc.Label+"**")
				lastLabel = loc.Label
			}
			lines = append(lines, "> - "+loc.Wikilink(item.Ref))
		}
	}
	return lines
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
