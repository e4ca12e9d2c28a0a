// internal/app/reading_service.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nt_reading_bot/internal/domain/checkin"
	"nt_reading_bot/internal/domain/plan"
	"nt_reading_bot/internal/domain/reader"
	domainTelegram "nt_reading_bot/internal/domain/telegram"
	idb "nt_reading_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const readingDateLayout = "2006-01-02"

var (
	ErrReaderInactive = errors.New("reader is not subscribed to the plan")
	ErrOutsidePlan    = errors.New("date is outside the reading plan")
	ErrFutureCheckIn  = errors.New("cannot check in for a future date")
)

// ReadingService is what the bot handlers and the scheduler need from the
// application layer.
type ReadingService interface {
	Today() time.Time
	Schedule() plan.Schedule
	Register(ctx context.Context, telegramID int64, firstName, username string) (*reader.Reader, bool, error)
	Unsubscribe(ctx context.Context, telegramID int64) (*reader.Reader, error)
	Summary(ctx context.Context, telegramID int64, date time.Time) (*Summary, error)
	CheckIn(ctx context.Context, telegramID int64, date time.Time) (*CheckInResult, error)
	CalendarMonth(ctx context.Context, telegramID int64, month time.Time) (string, error)
	SendDailyReadings(ctx context.Context, date time.Time) error
	SendEveningReminders(ctx context.Context, date time.Time) error
}

// PlanPhase tells where a date sits relative to the plan window.
type PlanPhase int

const (
	PhaseNotStarted PlanPhase = iota
	PhaseInPlan
	PhaseFinished
)

// Summary is the reader's dashboard for one date.
type Summary struct {
	Reader          *reader.Reader
	Date            time.Time
	Phase           PlanPhase
	DaysUntilStart  int
	Cycle           int
	DayInCycle      int
	Section         string
	ReadingTime     string
	CycleStart      time.Time
	CycleEnd        time.Time
	CycleProgress   float64
	OverallProgress float64
	DaysCompleted   int
	NextSection     string
	CheckIns        int
	CheckedInToday  bool
	CurrentStreak   int
	LongestStreak   int
}

// CheckInResult describes a "Mark as Read".
type CheckInResult struct {
	Recorded      bool // false when the date was already checked in
	Date          time.Time
	Info          plan.CycleInfo
	Section       string
	CurrentStreak int
}

// ReadingServiceImpl implements ReadingService.
type ReadingServiceImpl struct {
	readerRepo  reader.Repository
	checkinRepo checkin.Repository
	messenger   domainTelegram.Messenger
	schedule    plan.Schedule
	location    *time.Location
	logger      *logrus.Entry
	now         func() time.Time
}

func NewReadingService(
	rr reader.Repository,
	cr checkin.Repository,
	messenger domainTelegram.Messenger,
	schedule plan.Schedule,
	location *time.Location,
	logger *logrus.Entry,
) *ReadingServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &ReadingServiceImpl{
		readerRepo:  rr,
		checkinRepo: cr,
		messenger:   messenger,
		schedule:    schedule,
		location:    location,
		logger:      logger,
		now:         time.Now,
	}
}

// Today is the current calendar date in the configured location.
func (s *ReadingServiceImpl) Today() time.Time {
	return dateIn(s.now(), s.location)
}

func (s *ReadingServiceImpl) Schedule() plan.Schedule {
	return s.schedule
}

// Register subscribes a Telegram user. Returning users are re-activated and
// their profile refreshed; created reports whether the reader is new.
func (s *ReadingServiceImpl) Register(ctx context.Context, telegramID int64, firstName, username string) (*reader.Reader, bool, error) {
	logCtx := s.logger.WithField("telegram_id", telegramID)

	existing, err := s.readerRepo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return s.resubscribe(ctx, existing, firstName, username)
	}
	if !errors.Is(err, idb.ErrReaderNotFound) {
		return nil, false, fmt.Errorf("failed to look up reader %d: %w", telegramID, err)
	}

	newReader := &reader.Reader{
		TelegramID: telegramID,
		FirstName:  firstName,
		Username:   nullString(username),
		IsActive:   true,
	}
	if err := s.readerRepo.Create(ctx, newReader); err != nil {
		if errors.Is(err, idb.ErrDuplicateTelegramID) {
			// A concurrent /start created the row first.
			logCtx.Debug("Reader created concurrently, refreshing instead")
			existing, err := s.readerRepo.GetByTelegramID(ctx, telegramID)
			if err != nil {
				return nil, false, fmt.Errorf("failed to look up reader %d: %w", telegramID, err)
			}
			return s.resubscribe(ctx, existing, firstName, username)
		}
		return nil, false, fmt.Errorf("failed to create reader %d: %w", telegramID, err)
	}
	logCtx.WithField("reader_id", newReader.ID).Info("New reader registered")
	return newReader, true, nil
}

func (s *ReadingServiceImpl) resubscribe(ctx context.Context, existing *reader.Reader, firstName, username string) (*reader.Reader, bool, error) {
	existing.FirstName = firstName
	existing.Username = nullString(username)
	existing.IsActive = true
	if err := s.readerRepo.Update(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("failed to refresh reader %d: %w", existing.TelegramID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"telegram_id": existing.TelegramID,
		"reader_id":   existing.ID,
	}).Info("Returning reader re-subscribed")
	return existing, false, nil
}

// Unsubscribe stops daily messages for a reader. Check-ins are kept.
func (s *ReadingServiceImpl) Unsubscribe(ctx context.Context, telegramID int64) (*reader.Reader, error) {
	rd, err := s.readerRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !rd.IsActive {
		return rd, nil
	}
	rd.IsActive = false
	if err := s.readerRepo.Update(ctx, rd); err != nil {
		return nil, fmt.Errorf("failed to unsubscribe reader %d: %w", telegramID, err)
	}
	s.logger.WithField("reader_id", rd.ID).Info("Reader unsubscribed")
	return rd, nil
}

// Summary builds the dashboard of a reader for date.
func (s *ReadingServiceImpl) Summary(ctx context.Context, telegramID int64, date time.Time) (*Summary, error) {
	rd, err := s.readerRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	date = dateIn(date, s.location)

	dates, err := s.checkinRepo.ListDates(ctx, rd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins for reader %d: %w", rd.ID, err)
	}

	checkedIn, err := s.checkinRepo.Exists(ctx, rd.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check today's check-in for reader %d: %w", rd.ID, err)
	}

	sum := &Summary{
		Reader:         rd,
		Date:           date,
		CheckIns:       len(dates),
		CheckedInToday: checkedIn,
		CurrentStreak:  checkin.CurrentStreak(dates, date),
		LongestStreak:  checkin.LongestStreak(dates),
	}

	info, inPlan := s.schedule.CycleInfoForDate(date)
	switch {
	case inPlan:
		sum.Phase = PhaseInPlan
		sum.Cycle = info.Cycle
		sum.DayInCycle = info.DayInCycle
		sum.CycleStart, sum.CycleEnd, _ = s.schedule.CycleWindow(info.Cycle)
		sum.CycleProgress = plan.ProgressPercentage(info.DayInCycle, s.schedule.CycleLengthDays)
		sum.DaysCompleted = plan.DaysCompleted(info.Cycle, info.DayInCycle)
		sum.NextSection = plan.NextSection(info.Cycle)
	case s.schedule.DaysSinceStart(date) < 0:
		sum.Phase = PhaseNotStarted
		sum.DaysUntilStart = -s.schedule.DaysSinceStart(date)
		sum.NextSection = plan.ReadingSectionForCycle(1)
	default:
		sum.Phase = PhaseFinished
		sum.DaysCompleted = s.schedule.TotalDays()
		sum.NextSection = plan.ReviewPeriodLabel
	}
	// Cycle 0 outside the plan resolves to the review/reflection labels.
	sum.Section = plan.ReadingSectionForCycle(sum.Cycle)
	sum.ReadingTime = plan.ReadingTimeForCycle(sum.Cycle)
	sum.OverallProgress = plan.OverallPercentage(sum.DaysCompleted)
	return sum, nil
}

// CheckIn records that the reader finished the reading of date.
func (s *ReadingServiceImpl) CheckIn(ctx context.Context, telegramID int64, date time.Time) (*CheckInResult, error) {
	logCtx := s.logger.WithField("telegram_id", telegramID)

	rd, err := s.readerRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !rd.IsActive {
		return nil, ErrReaderInactive
	}

	date = dateIn(date, s.location)
	if date.After(s.Today()) {
		return nil, ErrFutureCheckIn
	}
	info, ok := s.schedule.CycleInfoForDate(date)
	if !ok {
		return nil, ErrOutsidePlan
	}

	inserted, err := s.checkinRepo.Record(ctx, &checkin.CheckIn{
		ReaderID:    rd.ID,
		ReadingDate: date,
		Cycle:       info.Cycle,
		DayInCycle:  info.DayInCycle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record check-in for reader %d: %w", rd.ID, err)
	}

	dates, err := s.checkinRepo.ListDates(ctx, rd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins for reader %d: %w", rd.ID, err)
	}

	logCtx.WithFields(logrus.Fields{
		"reader_id":    rd.ID,
		"reading_date": date.Format(readingDateLayout),
		"cycle":        info.Cycle,
		"day":          info.DayInCycle,
		"inserted":     inserted,
	}).Info("Check-in processed")

	return &CheckInResult{
		Recorded:      inserted,
		Date:          date,
		Info:          info,
		Section:       plan.ReadingSectionForCycle(info.Cycle),
		CurrentStreak: checkin.CurrentStreak(dates, s.Today()),
	}, nil
}

// CalendarMonth renders the month containing month for a reader.
func (s *ReadingServiceImpl) CalendarMonth(ctx context.Context, telegramID int64, month time.Time) (string, error) {
	rd, err := s.readerRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return "", err
	}
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, s.location)
	last := first.AddDate(0, 1, -1)

	dates, err := s.checkinRepo.ListDatesBetween(ctx, rd.ID, first, last)
	if err != nil {
		return "", fmt.Errorf("failed to load check-ins for reader %d: %w", rd.ID, err)
	}
	return RenderCalendar(s.schedule, first, dates), nil
}

// SendDailyReadings sends every active reader the reading for date.
func (s *ReadingServiceImpl) SendDailyReadings(ctx context.Context, date time.Time) error {
	date = dateIn(date, s.location)
	logCtx := s.logger.WithField("reading_date", date.Format(readingDateLayout))

	info, ok := s.schedule.CycleInfoForDate(date)
	if !ok {
		logCtx.Info("Date is outside the reading plan. No daily reading sent.")
		return nil
	}

	readers, err := s.readerRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active readers: %w", err)
	}
	if len(readers) == 0 {
		logCtx.Info("No active readers. Daily reading skipped.")
		return nil
	}

	markup := domainTelegram.CheckInMarkup(date.Format(readingDateLayout))
	failed := 0
	for _, rd := range readers {
		text := RenderDailyReading(rd.DisplayName(), info, date)
		if err := s.messenger.SendMessage(rd.TelegramID, text, &telebot.SendOptions{ReplyMarkup: markup}); err != nil {
			failed++
			logCtx.WithError(err).WithField("reader_id", rd.ID).Error("Failed to send daily reading")
			continue
		}
		logCtx.WithField("reader_id", rd.ID).Debug("Daily reading sent")
	}
	logCtx.WithFields(logrus.Fields{"readers": len(readers), "failed": failed}).Info("Daily readings dispatched")

	if failed > 0 {
		return fmt.Errorf("daily reading not delivered to %d of %d readers", failed, len(readers))
	}
	return nil
}

// SendEveningReminders nudges active readers who have not checked in for date.
func (s *ReadingServiceImpl) SendEveningReminders(ctx context.Context, date time.Time) error {
	date = dateIn(date, s.location)
	logCtx := s.logger.WithField("reading_date", date.Format(readingDateLayout))

	info, ok := s.schedule.CycleInfoForDate(date)
	if !ok {
		logCtx.Info("Date is outside the reading plan. No reminders sent.")
		return nil
	}

	readers, err := s.readerRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active readers: %w", err)
	}
	if len(readers) == 0 {
		return nil
	}

	ids := make([]int64, len(readers))
	for i, rd := range readers {
		ids[i] = rd.ID
	}
	checkedIn, err := s.checkinRepo.ListCheckedInReaderIDs(ctx, ids, date)
	if err != nil {
		return fmt.Errorf("failed to list checked-in readers: %w", err)
	}
	done := make(map[int64]bool, len(checkedIn))
	for _, id := range checkedIn {
		done[id] = true
	}

	markup := domainTelegram.CheckInMarkup(date.Format(readingDateLayout))
	sent, failed := 0, 0
	for _, rd := range readers {
		if done[rd.ID] {
			continue
		}
		text := RenderEveningReminder(rd.DisplayName(), info)
		if err := s.messenger.SendMessage(rd.TelegramID, text, &telebot.SendOptions{ReplyMarkup: markup}); err != nil {
			failed++
			logCtx.WithError(err).WithField("reader_id", rd.ID).Error("Failed to send evening reminder")
			continue
		}
		sent++
	}
	logCtx.WithFields(logrus.Fields{"sent": sent, "failed": failed, "already_read": len(checkedIn)}).Info("Evening reminders dispatched")

	if failed > 0 {
		return fmt.Errorf("evening reminder not delivered to %d readers", failed)
	}
	return nil
}

// dateIn returns midnight of t's calendar date as seen in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
