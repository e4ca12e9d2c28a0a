package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"nt_reading_bot/internal/domain/reader"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var readerRowColumns = []string{"id", "telegram_id", "first_name", "username", "is_active", "created_at", "updated_at"}

func TestReaderCreate_ScansGeneratedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)
	now := time.Date(2025, time.March, 13, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO readers")).
		WithArgs(int64(10), "Anna", "anna_k", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	rd := &reader.Reader{TelegramID: 10, FirstName: "Anna", Username: sql.NullString{String: "anna_k", Valid: true}, IsActive: true}
	if err := repo.Create(context.Background(), rd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rd.ID != 1 || !rd.CreatedAt.Equal(now) {
		t.Fatalf("reader=%+v", rd)
	}
}

func TestReaderCreate_DuplicateTelegramID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO readers")).
		WithArgs(int64(10), "Anna", nil, true).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "readers_telegram_id_key"})

	err := repo.Create(context.Background(), &reader.Reader{TelegramID: 10, FirstName: "Anna", IsActive: true})
	if !errors.Is(err, ErrDuplicateTelegramID) {
		t.Fatalf("err=%v", err)
	}
}

func TestReaderCreate_OtherConstraintIsWrapped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)

	pqErr := &pq.Error{Code: "23514", Constraint: "some_check"}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO readers")).WillReturnError(pqErr)

	err := repo.Create(context.Background(), &reader.Reader{TelegramID: 10, FirstName: "Anna"})
	if errors.Is(err, ErrDuplicateTelegramID) || !errors.Is(err, pqErr) {
		t.Fatalf("err=%v", err)
	}
}

func TestReaderGetByTelegramID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)
	now := time.Date(2025, time.March, 13, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM readers WHERE telegram_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(readerRowColumns).AddRow(int64(1), int64(10), "Anna", nil, true, now, now))

	rd, err := repo.GetByTelegramID(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rd.ID != 1 || rd.FirstName != "Anna" || rd.Username.Valid || !rd.IsActive {
		t.Fatalf("reader=%+v", rd)
	}
}

func TestReaderGetByTelegramID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM readers WHERE telegram_id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(readerRowColumns))

	if _, err := repo.GetByTelegramID(context.Background(), 99); !errors.Is(err, ErrReaderNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestReaderUpdate_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE readers")).
		WithArgs("Anna", nil, false, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), &reader.Reader{ID: 5, FirstName: "Anna"})
	if !errors.Is(err, ErrReaderNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestReaderListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresReaderRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(readerRowColumns).
			AddRow(int64(1), int64(10), "Anna", "anna_k", true, now, now).
			AddRow(int64(2), int64(20), "Ben", nil, true, now, now))

	readers, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readers) != 2 || readers[0].Username.String != "anna_k" || readers[1].Username.Valid {
		t.Fatalf("readers=%+v", readers)
	}
}

func TestApplySchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS readers")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := ApplySchema(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
