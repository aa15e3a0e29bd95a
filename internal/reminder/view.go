package reminder

import (
	"sort"
	"time"
)

// Summary holds the dashboard counters.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// ParseDate parses a YYYY-MM-DD value. ok is false for nil or malformed input.
func ParseDate(date *string) (t time.Time, ok bool) {
	if date == nil || *date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, *date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsOverdue reports whether date falls strictly before today's calendar
// date. Absent or unparseable dates are never overdue.
func IsOverdue(date *string, today time.Time) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	y, m, day := today.Date()
	return d.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

// SortByDate returns a copy of rs ordered by ascending date. Rows without
// a usable date go last, keeping their original order.
func SortByDate(rs []Reminder) []Reminder {
	out := make([]Reminder, len(rs))
	copy(out, rs)

	sort.SliceStable(out, func(i, j int) bool {
		di, okI := ParseDate(out[i].Date)
		dj, okJ := ParseDate(out[j].Date)
		switch {
		case okI && okJ:
			return di.Before(dj)
		case okI:
			return true
		default:
			return false
		}
	})
	return out
}

// Row is a reminder decorated for display.
type Row struct {
	Reminder
	Overdue bool `json:"overdue"`
}

// Annotate sorts rs by date and flags the overdue pending rows.
func Annotate(rs []Reminder, today time.Time) []Row {
	sorted := SortByDate(rs)
	out := make([]Row, len(sorted))
	for i, r := range sorted {
		out[i] = Row{
			Reminder: r,
			Overdue:  !r.IsCompleted() && IsOverdue(r.Date, today),
		}
	}
	return out
}

// Summarize counts rows by status. Anything not completed counts as
// pending, and Overdue only counts pending rows.
func Summarize(rs []Reminder, today time.Time) Summary {
	var s Summary
	for _, r := range rs {
		s.Total++
		if r.IsCompleted() {
			s.Completed++
			continue
		}
		s.Pending++
		if IsOverdue(r.Date, today) {
			s.Overdue++
		}
	}
	return s
}

// Filter returns the rows with the given status. An empty status keeps all rows.
func Filter(rs []Reminder, status string) []Reminder {
	if status == "" {
		return rs
	}
	out := make([]Reminder, 0, len(rs))
	for _, r := range rs {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
