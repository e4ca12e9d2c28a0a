package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	dailyReadingTimeout    = 5 * time.Minute
	eveningReminderTimeout = 5 * time.Minute
)

// ReadingJobs is the part of the reading service driven by cron.
type ReadingJobs interface {
	Today() time.Time
	SendDailyReadings(ctx context.Context, date time.Time) error
	SendEveningReminders(ctx context.Context, date time.Time) error
}

type ReadingScheduler struct {
	cronEngine              *cron.Cron
	jobs                    ReadingJobs
	logger                  *logrus.Entry
	cronSpecDailyReading    string
	cronSpecEveningReminder string
}

func NewReadingScheduler(
	jobs ReadingJobs,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecDailyReading string, // e.g., "0 7 * * *" (7:00 AM daily)
	cronSpecEveningReminder string, // e.g., "0 20 * * *" (8:00 PM daily)
) *ReadingScheduler {
	return &ReadingScheduler{
		cronEngine:              cron.New(cron.WithLocation(location)),
		jobs:                    jobs,
		logger:                  logger,
		cronSpecDailyReading:    cronSpecDailyReading,
		cronSpecEveningReminder: cronSpecEveningReminder,
	}
}

// Start registers the jobs and starts the cron engine.
func (s *ReadingScheduler) Start() error {
	s.logger.Info("Starting reading scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecDailyReading, s.runDailyReading); err != nil {
		return fmt.Errorf("could not add daily reading cron job (%q): %w", s.cronSpecDailyReading, err)
	}
	if _, err := s.cronEngine.AddFunc(s.cronSpecEveningReminder, s.runEveningReminder); err != nil {
		return fmt.Errorf("could not add evening reminder cron job (%q): %w", s.cronSpecEveningReminder, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("jobs", len(s.cronEngine.Entries())).Info("Reading scheduler started.")
	return nil
}

func (s *ReadingScheduler) runDailyReading() {
	today := s.jobs.Today()
	logCtx := s.logger.WithFields(logrus.Fields{"job": "daily_reading", "date": today.Format("2006-01-02")})
	logCtx.Info("Cron job triggered.")

	ctx, cancel := context.WithTimeout(context.Background(), dailyReadingTimeout)
	defer cancel()
	if err := s.jobs.SendDailyReadings(ctx, today); err != nil {
		logCtx.WithError(err).Error("Daily reading job finished with errors.")
		return
	}
	logCtx.Info("Daily reading job finished.")
}

func (s *ReadingScheduler) runEveningReminder() {
	today := s.jobs.Today()
	logCtx := s.logger.WithFields(logrus.Fields{"job": "evening_reminder", "date": today.Format("2006-01-02")})
	logCtx.Info("Cron job triggered.")

	ctx, cancel := context.WithTimeout(context.Background(), eveningReminderTimeout)
	defer cancel()
	if err := s.jobs.SendEveningReminders(ctx, today); err != nil {
		logCtx.WithError(err).Error("Evening reminder job finished with errors.")
		return
	}
	logCtx.Info("Evening reminder job finished.")
}

func (s *ReadingScheduler) Stop() {
	s.logger.Info("Stopping reading scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reading scheduler gracefully stopped.")
}
