// internal/domain/plan/sections.go
package plan

const (
	// ReviewPeriodLabel is returned for cycles outside the plan.
	ReviewPeriodLabel = "Review Period"
	// ReflectionTimeLabel is the reading time for cycles outside the plan.
	ReflectionTimeLabel = "Reflection time"
)

// Section is one row of the reading table.
type Section struct {
	Cycle       int
	Reading     string
	ReadingTime string
}

var sections = [TotalCycles]Section{
	{1, "Matthew 1-7", "10-15 min/day"},
	{2, "Matthew 8-14", "10-15 min/day"},
	{3, "Matthew 15-21", "10-15 min/day"},
	{4, "Matthew 22-28", "10-15 min/day"},
	{5, "Mark 1-8", "12-15 min/day"},
	{6, "Mark 9-16", "12-15 min/day"},
	{7, "Luke 1-8", "12-15 min/day"},
	{8, "Luke 9-16", "12-15 min/day"},
	{9, "Luke 17-24", "12-15 min/day"},
	{10, "John 1-7", "10-15 min/day"},
	{11, "John 8-14", "10-15 min/day"},
	{12, "John 15-21", "10-15 min/day"},
	{13, "Acts 1-7", "10-15 min/day"},
	{14, "Acts 8-14", "10-15 min/day"},
	{15, "Acts 15-21", "10-15 min/day"},
	{16, "Acts 22-28", "10-15 min/day"},
	{17, "Romans 1-8", "12-15 min/day"},
	{18, "Romans 9-16", "12-15 min/day"},
	{19, "1 Corinthians 1-8", "12-15 min/day"},
	{20, "1 Corinthians 9-16", "12-15 min/day"},
	{21, "2 Corinthians 1-7", "10-15 min/day"},
	{22, "2 Corinthians 8-13", "8-12 min/day"},
	{23, "Galatians 1-6", "8-12 min/day"},
	{24, "Ephesians 1-6", "8-12 min/day"},
	{25, "Philippians 1-4 + Colossians 1-4", "12-15 min/day"},
	{26, "1 Thessalonians 1-5 + 2 Thess. 1-3", "12-15 min/day"},
	{27, "1 Timothy 1-6 + 2 Timothy 1-4", "15-18 min/day"},
	{28, "Titus 1-3 + Philemon", "5-8 min/day"},
	{29, "Hebrews 1-7", "10-15 min/day"},
	{30, "Hebrews 8-13", "8-12 min/day"},
	{31, "James 1-5 + 1 Peter 1-5", "15-18 min/day"},
	{32, "2 Peter 1-3 + 1 John 1-5", "12-15 min/day"},
	{33, "2 John + 3 John + Jude", "3-5 min/day"},
	{34, "Revelation 1-7", "10-15 min/day"},
	{35, "Revelation 8-14", "10-15 min/day"},
	{36, "Revelation 15-22", "12-15 min/day"},
}

// Sections returns a copy of the whole reading table in cycle order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections[:])
	return out
}

// SectionForCycle returns the table row for cycle.
func SectionForCycle(cycle int) (Section, bool) {
	if cycle < 1 || cycle > len(sections) {
		return Section{}, false
	}
	return sections[cycle-1], true
}

// ReadingSectionForCycle returns the scripture range of a cycle, or
// ReviewPeriodLabel when the cycle is outside the plan.
func ReadingSectionForCycle(cycle int) string {
	if s, ok := SectionForCycle(cycle); ok {
		return s.Reading
	}
	return ReviewPeriodLabel
}

// ReadingTimeForCycle returns the estimated daily reading time of a cycle,
// or ReflectionTimeLabel when the cycle is outside the plan.
func ReadingTimeForCycle(cycle int) string {
	if s, ok := SectionForCycle(cycle); ok {
		return s.ReadingTime
	}
	return ReflectionTimeLabel
}

// NextSection is the reading that follows cycle. After the last cycle it
// is the review period.
func NextSection(cycle int) string {
	return ReadingSectionForCycle(cycle + 1)
}
