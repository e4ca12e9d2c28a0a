package plan

import (
	"testing"
	"time"
)

func TestCycleInfoForDate_Boundaries(t *testing.T) {
	s := DefaultSchedule()
	start := s.StartDate

	tests := []struct {
		name   string
		date   time.Time
		want   CycleInfo
		wantOK bool
	}{
		{"start date", start, CycleInfo{Cycle: 1, DayInCycle: 1}, true},
		{"last day of first cycle", start.AddDate(0, 0, 29), CycleInfo{Cycle: 1, DayInCycle: 30}, true},
		{"first day of second cycle", start.AddDate(0, 0, 30), CycleInfo{Cycle: 2, DayInCycle: 1}, true},
		{"last plan day", start.AddDate(0, 0, 36*30-1), CycleInfo{Cycle: 36, DayInCycle: 30}, true},
		{"day before start", start.AddDate(0, 0, -1), CycleInfo{}, false},
		{"end is exclusive", start.AddDate(0, 0, 36*30), CycleInfo{}, false},
		{"far future", start.AddDate(10, 0, 0), CycleInfo{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.CycleInfoForDate(tt.date)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCycleInfoForDate_IgnoresTimeOfDay(t *testing.T) {
	s := DefaultSchedule()
	late := time.Date(2025, time.March, 13, 23, 59, 0, 0, time.UTC)
	got, ok := s.CycleInfoForDate(late)
	if !ok || got != (CycleInfo{Cycle: 1, DayInCycle: 1}) {
		t.Fatalf("got %+v ok=%v", got, ok)
	}

	// A calendar date in another zone is taken as written, not converted.
	tokyo := time.FixedZone("JST", 9*60*60)
	got, ok = s.CycleInfoForDate(time.Date(2025, time.March, 14, 1, 0, 0, 0, tokyo))
	if !ok || got != (CycleInfo{Cycle: 1, DayInCycle: 2}) {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
}

func TestCycleInfoForDate_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s := NewSchedule(time.Date(2025, time.March, 1, 0, 0, 0, 0, loc))
	// DST starts March 9, 2025 in New York.
	got, ok := s.CycleInfoForDate(time.Date(2025, time.March, 10, 0, 30, 0, 0, loc))
	if !ok || got != (CycleInfo{Cycle: 1, DayInCycle: 10}) {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
}

func TestCycleInfoForDate_Idempotent(t *testing.T) {
	s := DefaultSchedule()
	d := s.StartDate.AddDate(0, 0, 517)
	a, okA := s.CycleInfoForDate(d)
	b, okB := s.CycleInfoForDate(d)
	if a != b || okA != okB {
		t.Fatalf("results differ: %+v/%v vs %+v/%v", a, okA, b, okB)
	}
}

func TestNewSchedule_TruncatesStart(t *testing.T) {
	s := NewSchedule(time.Date(2025, time.March, 13, 18, 45, 0, 0, time.UTC))
	if !s.StartDate.Equal(DefaultStartDate) {
		t.Fatalf("start=%s", s.StartDate)
	}
	if s.CycleLengthDays != 30 || s.TotalCycles != 36 {
		t.Fatalf("unexpected constants: %+v", s)
	}
}

func TestEndDateAndContains(t *testing.T) {
	s := DefaultSchedule()
	wantEnd := time.Date(2028, time.February, 26, 0, 0, 0, 0, time.UTC)
	if !s.EndDate().Equal(wantEnd) {
		t.Fatalf("end=%s, want %s", s.EndDate(), wantEnd)
	}
	if s.Contains(s.EndDate()) {
		t.Fatalf("end date must be outside the plan")
	}
	if !s.Contains(s.EndDate().AddDate(0, 0, -1)) {
		t.Fatalf("day before end must be inside the plan")
	}
}

func TestDateFor_RoundTrip(t *testing.T) {
	s := DefaultSchedule()
	for cycle := 1; cycle <= TotalCycles; cycle++ {
		for day := 1; day <= CycleLengthDays; day++ {
			d, ok := s.DateFor(cycle, day)
			if !ok {
				t.Fatalf("DateFor(%d,%d) not ok", cycle, day)
			}
			info, ok := s.CycleInfoForDate(d)
			if !ok || info.Cycle != cycle || info.DayInCycle != day {
				t.Fatalf("round trip (%d,%d) -> %s -> %+v", cycle, day, d, info)
			}
		}
	}
	if _, ok := s.DateFor(0, 1); ok {
		t.Fatalf("cycle 0 must be rejected")
	}
	if _, ok := s.DateFor(1, 31); ok {
		t.Fatalf("day 31 must be rejected")
	}
}

func TestCycleWindow(t *testing.T) {
	s := DefaultSchedule()
	first, last, ok := s.CycleWindow(1)
	if !ok {
		t.Fatalf("cycle 1 window not ok")
	}
	if got := first.Format("Jan 2, 2006"); got != "Mar 13, 2025" {
		t.Fatalf("first=%s", got)
	}
	if got := last.Format("Jan 2, 2006"); got != "Apr 11, 2025" {
		t.Fatalf("last=%s", got)
	}
	if _, _, ok := s.CycleWindow(37); ok {
		t.Fatalf("cycle 37 must have no window")
	}
}
