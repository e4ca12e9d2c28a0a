// internal/domain/plan/progress.go
package plan

// ProgressPercentage is the share of a cycle covered by currentDay.
// The result is not clamped: day 31 of a 30-day cycle yields 103.33.
func ProgressPercentage(currentDay, cycleLengthDays int) float64 {
	return 100.0 * float64(currentDay) / float64(cycleLengthDays)
}

// DaysCompleted counts plan days finished before (currentCycle, currentDay).
// Inputs are not validated.
func DaysCompleted(currentCycle, currentDay int) int {
	return (currentCycle-1)*CycleLengthDays + currentDay - 1
}

// OverallPercentage is the share of the whole plan covered by
// daysCompleted, unclamped.
func OverallPercentage(daysCompleted int) float64 {
	return 100.0 * float64(daysCompleted) / float64(TotalCycles*CycleLengthDays)
}
