// internal/infra/database/postgres_checkin_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nt_reading_bot/internal/domain/checkin"

	"github.com/lib/pq" // For pq.Array
)

type PostgresCheckInRepository struct {
	db *sql.DB
}

func NewPostgresCheckInRepository(db *sql.DB) *PostgresCheckInRepository {
	return &PostgresCheckInRepository{db: db}
}

func (r *PostgresCheckInRepository) Record(ctx context.Context, c *checkin.CheckIn) (bool, error) {
	query := `INSERT INTO reading_checkins (reader_id, reading_date, cycle, day_in_cycle)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT ON CONSTRAINT reader_reading_date_unique DO NOTHING
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, c.ReaderID, sqlDate(c.ReadingDate), c.Cycle, c.DayInCycle).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil // Already checked in for this date
		}
		return false, fmt.Errorf("error recording check-in: %w", err)
	}
	return true, nil
}

func (r *PostgresCheckInRepository) Exists(ctx context.Context, readerID int64, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reading_checkins WHERE reader_id = $1 AND reading_date = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, readerID, sqlDate(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking check-in existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresCheckInRepository) ListDates(ctx context.Context, readerID int64) ([]time.Time, error) {
	query := `SELECT reading_date FROM reading_checkins WHERE reader_id = $1 ORDER BY reading_date`
	rows, err := r.db.QueryContext(ctx, query, readerID)
	if err != nil {
		return nil, fmt.Errorf("error querying check-in dates: %w", err)
	}
	defer rows.Close()
	return scanDates(rows)
}

func (r *PostgresCheckInRepository) ListDatesBetween(ctx context.Context, readerID int64, from, to time.Time) ([]time.Time, error) {
	query := `SELECT reading_date FROM reading_checkins
               WHERE reader_id = $1 AND reading_date BETWEEN $2 AND $3
               ORDER BY reading_date`
	rows, err := r.db.QueryContext(ctx, query, readerID, sqlDate(from), sqlDate(to))
	if err != nil {
		return nil, fmt.Errorf("error querying check-in dates in range: %w", err)
	}
	defer rows.Close()
	return scanDates(rows)
}

func (r *PostgresCheckInRepository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reading_checkins WHERE reading_date = $1`, sqlDate(date)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting check-ins for date: %w", err)
	}
	return n, nil
}

func (r *PostgresCheckInRepository) ListCheckedInReaderIDs(ctx context.Context, readerIDs []int64, date time.Time) ([]int64, error) {
	if len(readerIDs) == 0 {
		return nil, nil
	}
	query := `SELECT reader_id FROM reading_checkins
               WHERE reading_date = $1 AND reader_id = ANY($2::bigint[])`
	rows, err := r.db.QueryContext(ctx, query, sqlDate(date), pq.Array(readerIDs))
	if err != nil {
		return nil, fmt.Errorf("error querying checked-in readers: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, len(readerIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning checked-in reader id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checked-in readers: %w", err)
	}
	return ids, nil
}

// Helper to scan a single DATE column
func scanDates(rows *sql.Rows) ([]time.Time, error) {
	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning check-in date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-in dates: %w", err)
	}
	return dates, nil
}
