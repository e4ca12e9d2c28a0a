// internal/domain/plan/schedule.go
package plan

import "time"

const (
	// CycleLengthDays is the number of reading days in one cycle.
	CycleLengthDays = 30
	// TotalCycles is the number of cycles in the whole plan.
	TotalCycles = 36

	hoursPerDay = 24
)

// DefaultStartDate is the first day of the plan (March 13, 2025).
var DefaultStartDate = time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC)

// Schedule fixes the plan on the calendar. It is a value and never changes
// after construction.
type Schedule struct {
	StartDate       time.Time
	CycleLengthDays int
	TotalCycles     int
}

// CycleInfo is a position inside the plan. Both fields are 1-based.
type CycleInfo struct {
	Cycle      int
	DayInCycle int
}

// NewSchedule returns a schedule starting on the calendar date of start.
func NewSchedule(start time.Time) Schedule {
	return Schedule{
		StartDate:       dateOnly(start),
		CycleLengthDays: CycleLengthDays,
		TotalCycles:     TotalCycles,
	}
}

// DefaultSchedule returns the schedule starting on DefaultStartDate.
func DefaultSchedule() Schedule {
	return NewSchedule(DefaultStartDate)
}

// TotalDays is the length of the plan window in days.
func (s Schedule) TotalDays() int {
	return s.TotalCycles * s.CycleLengthDays
}

// EndDate is the first calendar day after the plan window.
func (s Schedule) EndDate() time.Time {
	return s.StartDate.AddDate(0, 0, s.TotalDays())
}

// DaysSinceStart counts whole calendar days from the start date to date.
// It is negative for dates before the start.
func (s Schedule) DaysSinceStart(date time.Time) int {
	return daysBetween(s.StartDate, date)
}

// Contains reports whether date falls inside [StartDate, EndDate).
func (s Schedule) Contains(date time.Time) bool {
	days := s.DaysSinceStart(date)
	return days >= 0 && days < s.TotalDays()
}

// CycleInfoForDate maps a calendar date to its cycle and day in cycle.
// The second result is false when date lies outside the plan window.
func (s Schedule) CycleInfoForDate(date time.Time) (CycleInfo, bool) {
	days := s.DaysSinceStart(date)
	if days < 0 || days >= s.TotalDays() {
		return CycleInfo{}, false
	}
	return CycleInfo{
		Cycle:      days/s.CycleLengthDays + 1,
		DayInCycle: days%s.CycleLengthDays + 1,
	}, true
}

// DateFor is the inverse of CycleInfoForDate.
func (s Schedule) DateFor(cycle, dayInCycle int) (time.Time, bool) {
	if cycle < 1 || cycle > s.TotalCycles || dayInCycle < 1 || dayInCycle > s.CycleLengthDays {
		return time.Time{}, false
	}
	offset := (cycle-1)*s.CycleLengthDays + dayInCycle - 1
	return s.StartDate.AddDate(0, 0, offset), true
}

// CycleWindow returns the first and last calendar day of a cycle, both
// inclusive.
func (s Schedule) CycleWindow(cycle int) (first, last time.Time, ok bool) {
	first, ok = s.DateFor(cycle, 1)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	last, _ = s.DateFor(cycle, s.CycleLengthDays)
	return first, last, true
}

// dateOnly drops the clock part of t, keeping its calendar date, and
// pins the result to UTC so day arithmetic is free of DST jumps.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours()) / hoursPerDay
}
