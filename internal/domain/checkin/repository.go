// internal/domain/checkin/repository.go
package checkin

import (
	"context"
	"time"
)

// Repository persists reading check-ins.
type Repository interface {
	// Record stores c unless the reader already checked in for that date.
	// inserted is false for a repeat check-in.
	Record(ctx context.Context, c *CheckIn) (inserted bool, err error)
	Exists(ctx context.Context, readerID int64, date time.Time) (bool, error)
	ListDates(ctx context.Context, readerID int64) ([]time.Time, error)
	// ListDatesBetween returns check-in dates in [from, to], both inclusive.
	ListDatesBetween(ctx context.Context, readerID int64, from, to time.Time) ([]time.Time, error)
	CountByDate(ctx context.Context, date time.Time) (int, error)
	// ListCheckedInReaderIDs returns the subset of readerIDs with a check-in for date.
	ListCheckedInReaderIDs(ctx context.Context, readerIDs []int64, date time.Time) ([]int64, error)
}
