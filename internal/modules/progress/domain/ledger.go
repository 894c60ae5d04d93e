package domain

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	EventLogHeader   = []string{"timestamp", "idx", "ref", "path"}
	SessionLogHeader = []string{"date", "start_ref", "end_ref", "count", "last_order"}
)

// EventRecord is one item marked complete by a finalize pass.
type EventRecord struct {
	Timestamp string
	Index     int
	Ref       string
	Path      string
}

// SessionRecord summarizes one finalize invocation.
type SessionRecord struct {
	Date      string
	StartRef  string
	EndRef    string
	Count     int
	LastOrder int
}

func (e EventRecord) Row() []string {
	return []string{e.Timestamp, strconv.Itoa(e.Index), e.Ref, e.Path}
}

func ParseEventRow(cells []string) (EventRecord, error) {
	if len(cells) != len(EventLogHeader) {
		return EventRecord{}, fmt.Errorf("event row: want %d cells, got %d", len(EventLogHeader), len(cells))
	}
	idx, err := strconv.Atoi(strings.TrimSpace(cells[1]))
	if err != nil || idx < 0 {
		return EventRecord{}, fmt.Errorf("event row: bad idx %q", cells[1])
	}
	if strings.TrimSpace(cells[0]) == "" {
		return EventRecord{}, fmt.Errorf("event row: empty timestamp")
	}
	return EventRecord{Timestamp: cells[0], Index: idx, Ref: cells[2], Path: cells[3]}, nil
}

func (s SessionRecord) Row() []string {
	return []string{s.Date, s.StartRef, s.EndRef, strconv.Itoa(s.Count), strconv.Itoa(s.LastOrder)}
}

func ParseSessionRow(cells []string) (SessionRecord, error) {
	if len(cells) != len(SessionLogHeader) {
		return SessionRecord{}, fmt.Errorf("session row: want %d cells, got %d", len(SessionLogHeader), len(cells))
	}
	count, err := strconv.Atoi(strings.TrimSpace(cells[3]))
	if err != nil {
		return SessionRecord{}, fmt.Errorf("session row: bad count %q", cells[3])
	}
	lastOrder, err := strconv.Atoi(strings.TrimSpace(cells[4]))
	if err != nil {
		return SessionRecord{}, fmt.Errorf("session row: bad last_order %q", cells[4])
	}
	return SessionRecord{Date: cells[0], StartRef: cells[1], EndRef: cells[2], Count: count, LastOrder: lastOrder}, nil
}

// DayCount is the number of distinct items read on one calendar day.
type DayCount struct {
	Day   string
	Count int
}
