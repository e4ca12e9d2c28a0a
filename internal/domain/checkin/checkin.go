// internal/domain/checkin/checkin.go
package checkin

import "time"

// CheckIn is a reader's "Mark as Read" for one plan day.
// Corresponds to the 'reading_checkins' table.
type CheckIn struct {
	ID          int64
	ReaderID    int64     // Foreign Key to readers.id
	ReadingDate time.Time // Calendar date that was read
	Cycle       int       // Plan coordinates at the time of the check-in
	DayInCycle  int
	CreatedAt   time.Time
}
