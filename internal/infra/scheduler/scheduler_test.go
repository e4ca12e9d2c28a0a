package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeJobs struct {
	mu          sync.Mutex
	today       time.Time
	daily       []time.Time
	evening     []time.Time
	dailyErr    error
	hasDeadline bool
}

func (f *fakeJobs) Today() time.Time { return f.today }

func (f *fakeJobs) SendDailyReadings(ctx context.Context, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.hasDeadline = ctx.Deadline()
	f.daily = append(f.daily, date)
	return f.dailyErr
}

func (f *fakeJobs) SendEveningReminders(_ context.Context, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evening = append(f.evening, date)
	return nil
}

func newTestScheduler(jobs ReadingJobs, daily, evening string) (*ReadingScheduler, *test.Hook) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	hook := test.NewLocal(l)
	return NewReadingScheduler(jobs, logrus.NewEntry(l), time.UTC, daily, evening), hook
}

func TestStart_RejectsInvalidSpec(t *testing.T) {
	s, _ := newTestScheduler(&fakeJobs{}, "not a cron", "0 20 * * *")
	if err := s.Start(); err == nil {
		t.Fatalf("expected error for invalid daily spec")
	}

	s, _ = newTestScheduler(&fakeJobs{}, "0 7 * * *", "61 * * * *")
	if err := s.Start(); err == nil {
		t.Fatalf("expected error for invalid evening spec")
	}
}

func TestStartStop_RegistersBothJobs(t *testing.T) {
	s, _ := newTestScheduler(&fakeJobs{}, "0 7 * * *", "0 20 * * *")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if n := len(s.cronEngine.Entries()); n != 2 {
		t.Fatalf("entries=%d", n)
	}
}

func TestRunDailyReading_PassesTodayWithDeadline(t *testing.T) {
	today := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	jobs := &fakeJobs{today: today}
	s, _ := newTestScheduler(jobs, "0 7 * * *", "0 20 * * *")

	s.runDailyReading()
	if len(jobs.daily) != 1 || !jobs.daily[0].Equal(today) {
		t.Fatalf("daily calls=%v", jobs.daily)
	}
	if !jobs.hasDeadline {
		t.Fatalf("job context must carry a deadline")
	}
}

func TestRunDailyReading_LogsFailure(t *testing.T) {
	jobs := &fakeJobs{today: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), dailyErr: errors.New("telegram down")}
	s, hook := newTestScheduler(jobs, "0 7 * * *", "0 20 * * *")

	s.runDailyReading()
	last := hook.LastEntry()
	if last == nil || last.Level != logrus.ErrorLevel {
		t.Fatalf("expected error log, got %+v", last)
	}
	if last.Data["job"] != "daily_reading" {
		t.Fatalf("fields=%v", last.Data)
	}
}

func TestRunEveningReminder(t *testing.T) {
	today := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	jobs := &fakeJobs{today: today}
	s, _ := newTestScheduler(jobs, "0 7 * * *", "0 20 * * *")

	s.runEveningReminder()
	if len(jobs.evening) != 1 || !jobs.evening[0].Equal(today) {
		t.Fatalf("evening calls=%v", jobs.evening)
	}
}
