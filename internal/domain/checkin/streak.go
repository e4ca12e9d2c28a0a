package checkin

import (
	"sort"
	"time"
)

// CurrentStreak counts consecutive check-in days ending today. A reader who
// has not checked in yet today keeps the streak that ended yesterday.
func CurrentStreak(dates []time.Time, today time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}
	set := make(map[int64]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}

	cursor := dayNumber(today)
	if _, ok := set[cursor]; !ok {
		cursor--
	}
	streak := 0
	for {
		if _, ok := set[cursor]; !ok {
			return streak
		}
		streak++
		cursor--
	}
}

// LongestStreak is the longest run of consecutive check-in days.
func LongestStreak(dates []time.Time) int {
	days := uniqueDays(dates)
	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && d == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// uniqueDays returns sorted, de-duplicated day numbers.
func uniqueDays(dates []time.Time) []int64 {
	seen := make(map[int64]struct{}, len(dates))
	out := make([]int64, 0, len(dates))
	for _, d := range dates {
		n := dayNumber(d)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// dayNumber identifies the calendar date of t, ignoring its location.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / (24 * 60 * 60)
}
