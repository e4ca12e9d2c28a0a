package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	"nt_reading_bot/internal/domain/plan"
)

const (
	displayDateLayout = "Jan 2, 2006"
	progressBarWidth  = 10
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// RenderDailyReading is the morning message for one plan day.
func RenderDailyReading(name string, info plan.CycleInfo, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Good morning, %s!\n", name)
	fmt.Fprintf(&b, "%s · Cycle %d/%d · Day %d of %d\n\n", date.Format(displayDateLayout), info.Cycle, plan.TotalCycles, info.DayInCycle, plan.CycleLengthDays)
	fmt.Fprintf(&b, "Today's reading: %s\n", plan.ReadingSectionForCycle(info.Cycle))
	fmt.Fprintf(&b, "~%s\n\n", plan.ReadingTimeForCycle(info.Cycle))
	b.WriteString("Tap \"Mark as Read\" when you are done.")
	return b.String()
}

// RenderEveningReminder nudges a reader who has not checked in yet.
func RenderEveningReminder(name string, info plan.CycleInfo) string {
	return fmt.Sprintf("%s, you have not marked today's reading yet.\nCycle %d, Day %d: %s (~%s)",
		name, info.Cycle, info.DayInCycle, plan.ReadingSectionForCycle(info.Cycle), plan.ReadingTimeForCycle(info.Cycle))
}

// RenderCheckIn answers a "Mark as Read".
func RenderCheckIn(res *CheckInResult) string {
	if !res.Recorded {
		return fmt.Sprintf("%s was already marked as read. Streak: %s.", res.Date.Format(displayDateLayout), pluralDays(res.CurrentStreak))
	}
	return fmt.Sprintf("Completed: %s (Cycle %d, Day %d).\nStreak: %s.",
		res.Section, res.Info.Cycle, res.Info.DayInCycle, pluralDays(res.CurrentStreak))
}

// RenderSummary renders the dashboard.
func RenderSummary(sum *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome, %s\nYour NT Reading Journey\n\n", sum.Reader.DisplayName())

	switch sum.Phase {
	case PhaseNotStarted:
		fmt.Fprintf(&b, "The plan starts in %s.\nFirst reading: %s\n", pluralDays(sum.DaysUntilStart), sum.NextSection)
	case PhaseFinished:
		fmt.Fprintf(&b, "All %d cycles are behind you.\n%s · %s\n", plan.TotalCycles, sum.Section, sum.ReadingTime)
	default:
		fmt.Fprintf(&b, "Current Reading · Cycle %d/%d\n", sum.Cycle, plan.TotalCycles)
		fmt.Fprintf(&b, "%s - %s\n", sum.CycleStart.Format(displayDateLayout), sum.CycleEnd.Format(displayDateLayout))
		fmt.Fprintf(&b, "%s\n", sum.Section)
		fmt.Fprintf(&b, "Day %d of %d · ~%s\n", sum.DayInCycle, plan.CycleLengthDays, sum.ReadingTime)
		fmt.Fprintf(&b, "Progress %s %d%%\n", progressBar(sum.CycleProgress), int(math.Round(sum.CycleProgress)))
	}

	b.WriteString("\nReading Stats\n")
	if sum.Phase == PhaseInPlan {
		fmt.Fprintf(&b, "Current Cycle: %d/%d\n", sum.Cycle, plan.TotalCycles)
	}
	fmt.Fprintf(&b, "Days Completed: %d (%d%% of plan)\n", sum.DaysCompleted, int(math.Round(sum.OverallProgress)))
	fmt.Fprintf(&b, "Check-ins: %d\n", sum.CheckIns)
	fmt.Fprintf(&b, "Current Streak: %s (longest %s)\n", pluralDays(sum.CurrentStreak), pluralDays(sum.LongestStreak))
	if sum.CheckedInToday {
		b.WriteString("Today: completed\n")
	} else if sum.Phase == PhaseInPlan {
		b.WriteString("Today: not marked yet\n")
	}

	if sum.Phase == PhaseInPlan {
		b.WriteString("\nComing Up Next\n")
		if sum.Cycle < plan.TotalCycles {
			fmt.Fprintf(&b, "Cycle %d: %s\n", sum.Cycle+1, sum.NextSection)
		} else {
			fmt.Fprintf(&b, "%s\n", sum.NextSection)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCalendar draws a Sunday-first month grid. Checked-in days carry a
// tick, days outside the plan are shown as a dot.
func RenderCalendar(s plan.Schedule, month time.Time, completed []time.Time) string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	done := make(map[int]bool, len(completed))
	for _, d := range completed {
		if d.Year() == first.Year() && d.Month() == first.Month() {
			done[d.Day()] = true
		}
	}

	var b strings.Builder
	b.WriteString(first.Format("January 2006"))
	b.WriteString("\n")
	b.WriteString(strings.Join(weekdayHeader, "  "))
	b.WriteString("\n")

	cells := make([]string, 0, 42)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, "   ")
	}
	doneCount := 0
	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		switch {
		case done[day]:
			doneCount++
			cells = append(cells, fmt.Sprintf("%2d✓", day))
		case s.Contains(date):
			cells = append(cells, fmt.Sprintf("%2d ", day))
		default:
			cells = append(cells, " · ")
		}
	}
	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells[i:end], " "), " "))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nCompleted this month: %d\n", doneCount)
	for _, c := range cyclesInMonth(s, first, daysInMonth) {
		fmt.Fprintf(&b, "Cycle %d: %s\n", c, plan.ReadingSectionForCycle(c))
	}
	b.WriteString("✓ completed   · outside the plan")
	return b.String()
}

func cyclesInMonth(s plan.Schedule, first time.Time, daysInMonth int) []int {
	var cycles []int
	for day := 0; day < daysInMonth; day++ {
		info, ok := s.CycleInfoForDate(first.AddDate(0, 0, day))
		if !ok {
			continue
		}
		if len(cycles) == 0 || cycles[len(cycles)-1] != info.Cycle {
			cycles = append(cycles, info.Cycle)
		}
	}
	return cycles
}

// RenderPlanOverview lists every cycle, marking the current one.
func RenderPlanOverview(currentCycle int) string {
	var b strings.Builder
	b.WriteString("NT Reading Plan · 36 cycles of 30 days\n\n")
	for _, sec := range plan.Sections() {
		marker := "  "
		switch {
		case sec.Cycle == currentCycle:
			marker = "▶ "
		case currentCycle > 0 && sec.Cycle < currentCycle:
			marker = "✓ "
		}
		fmt.Fprintf(&b, "%s%2d. %s (%s)\n", marker, sec.Cycle, sec.Reading, sec.ReadingTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

// OverviewCycle is the cycle RenderPlanOverview highlights for date: 0
// before the plan and TotalCycles+1 once every cycle is done.
func OverviewCycle(s plan.Schedule, date time.Time) int {
	if info, ok := s.CycleInfoForDate(date); ok {
		return info.Cycle
	}
	if s.DaysSinceStart(date) >= s.TotalDays() {
		return s.TotalCycles + 1
	}
	return 0
}

// RenderCycleDetails describes a single cycle. Cycles outside the plan get
// the review labels and no dates.
func RenderCycleDetails(s plan.Schedule, cycle int) string {
	first, last, ok := s.CycleWindow(cycle)
	if !ok {
		return fmt.Sprintf("Cycle %d is outside the plan.\n%s · %s", cycle, plan.ReadingSectionForCycle(cycle), plan.ReadingTimeForCycle(cycle))
	}
	return fmt.Sprintf("Cycle %d/%d\n%s - %s\nReading: %s\n~%s",
		cycle, plan.TotalCycles,
		first.Format(displayDateLayout), last.Format(displayDateLayout),
		plan.ReadingSectionForCycle(cycle), plan.ReadingTimeForCycle(cycle))
}

// progressBar clamps pct to [0,100] for display only.
func progressBar(pct float64) string {
	filled := int(math.Round(pct / 100 * progressBarWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	return "[" + strings.Repeat("■", filled) + strings.Repeat("□", progressBarWidth-filled) + "]"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
