package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nt_reading_bot/internal/domain/reader"

	"github.com/lib/pq"
)

// Custom errors
var ErrReaderNotFound = fmt.Errorf("reader not found")
var ErrDuplicateTelegramID = fmt.Errorf("reader with this Telegram ID already exists")

const uniqueViolation = "23505"

const readerColumns = `id, telegram_id, first_name, username, is_active, created_at, updated_at`

type PostgresReaderRepository struct {
	db *sql.DB
}

func NewPostgresReaderRepository(db *sql.DB) *PostgresReaderRepository {
	return &PostgresReaderRepository{db: db}
}

func (r *PostgresReaderRepository) Create(ctx context.Context, rd *reader.Reader) error {
	query := `INSERT INTO readers (telegram_id, first_name, username, is_active)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rd.TelegramID, rd.FirstName, rd.Username, rd.IsActive).Scan(&rd.ID, &rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "readers_telegram_id_key" {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating reader: %w", err)
	}
	return nil
}

func (r *PostgresReaderRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*reader.Reader, error) {
	query := `SELECT ` + readerColumns + ` FROM readers WHERE telegram_id = $1`
	rd, err := scanReader(r.db.QueryRowContext(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReaderNotFound
		}
		return nil, fmt.Errorf("error getting reader by Telegram ID: %w", err)
	}
	return rd, nil
}

func (r *PostgresReaderRepository) Update(ctx context.Context, rd *reader.Reader) error {
	query := `UPDATE readers
               SET first_name = $1, username = $2, is_active = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, rd.FirstName, rd.Username, rd.IsActive, rd.ID).Scan(&rd.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReaderNotFound
		}
		return fmt.Errorf("error updating reader: %w", err)
	}
	return nil
}

func (r *PostgresReaderRepository) ListActive(ctx context.Context) ([]*reader.Reader, error) {
	query := `SELECT ` + readerColumns + ` FROM readers WHERE is_active = TRUE ORDER BY id`
	return r.list(ctx, query, "active readers")
}

func (r *PostgresReaderRepository) ListAll(ctx context.Context) ([]*reader.Reader, error) {
	query := `SELECT ` + readerColumns + ` FROM readers ORDER BY id`
	return r.list(ctx, query, "all readers")
}

func (r *PostgresReaderRepository) list(ctx context.Context, query, what string) ([]*reader.Reader, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", what, err)
	}
	defer rows.Close()

	readers := make([]*reader.Reader, 0)
	for rows.Next() {
		rd, err := scanReader(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", what, err)
		}
		readers = append(readers, rd)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}
	return readers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReader(row rowScanner) (*reader.Reader, error) {
	rd := &reader.Reader{}
	err := row.Scan(&rd.ID, &rd.TelegramID, &rd.FirstName, &rd.Username, &rd.IsActive, &rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rd, nil
}
