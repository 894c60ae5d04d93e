package domain

import (
	"sort"
	"time"
)

// StampLayout is the local, second-precision format of read timestamps.
const StampLayout = "2006-01-02T15:04:05"

// ReadStateMap is the sparse index -> read timestamps record. A non-empty
// list at i means plan item i has been read.
type ReadStateMap map[int][]string

// ReadState is what the map says about a plan of a given length.
type ReadState struct {
	UniqueRead  int
	FirstUnread int
}

func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// ComputeFromMap scans 0..total-1 in order. FirstUnread is the smallest gap,
// not max+1, because items can be completed out of order.
func ComputeFromMap(m ReadStateMap, total int) ReadState {
	state := ReadState{FirstUnread: -1}
	for i := 0; i < total; i++ {
		if len(m[i]) > 0 {
			state.UniqueRead++
			continue
		}
		if state.FirstUnread < 0 {
			state.FirstUnread = i
		}
	}
	if state.FirstUnread < 0 {
		state.FirstUnread = max(total, 0)
	}
	return state
}

// Append records stamp for index unless it equals the last recorded stamp.
// It reports whether the entry grew.
func (m ReadStateMap) Append(index int, stamp string) bool {
	stamps := m[index]
	if n := len(stamps); n > 0 && stamps[n-1] == stamp {
		return false
	}
	m[index] = append(stamps, stamp)
	return true
}

func (m ReadStateMap) IsRead(index int) bool {
	return len(m[index]) > 0
}

// Indices returns the read indices in ascending order.
func (m ReadStateMap) Indices() []int {
	out := make([]int, 0, len(m))
	for idx, stamps := range m {
		if len(stamps) > 0 {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// SeedFromSnapshot marks 0..versesRead-1 as read at one stamp. It is the
// coarse recovery path when only the snapshot survived.
func SeedFromSnapshot(versesRead int, stamp string) ReadStateMap {
	m := ReadStateMap{}
	for i := 0; i < versesRead; i++ {
		m[i] = []string{stamp}
	}
	return m
}

// RebuildFromEvents replays ledger rows in order with the same
// last-stamp dedup as finalize.
func RebuildFromEvents(events []EventRecord) ReadStateMap {
	m := ReadStateMap{}
	for _, event := range events {
		if event.Index < 0 || event.Timestamp == "" {
			continue
		}
		m.Append(event.Index, event.Timestamp)
	}
	return m
}
