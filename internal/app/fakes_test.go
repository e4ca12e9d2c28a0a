package app

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"nt_reading_bot/internal/domain/checkin"
	"nt_reading_bot/internal/domain/reader"
	idb "nt_reading_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

type memReaderRepo struct {
	mu      sync.Mutex
	nextID  int64
	readers map[int64]*reader.Reader // by ID
}

func newMemReaderRepo() *memReaderRepo {
	return &memReaderRepo{readers: map[int64]*reader.Reader{}}
}

func (m *memReaderRepo) Create(_ context.Context, r *reader.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.readers {
		if existing.TelegramID == r.TelegramID {
			return idb.ErrDuplicateTelegramID
		}
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.readers[r.ID] = &cp
	return nil
}

func (m *memReaderRepo) GetByTelegramID(_ context.Context, telegramID int64) (*reader.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.readers {
		if r.TelegramID == telegramID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, idb.ErrReaderNotFound
}

func (m *memReaderRepo) Update(_ context.Context, r *reader.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.readers[r.ID]; !ok {
		return idb.ErrReaderNotFound
	}
	r.UpdatedAt = time.Now()
	cp := *r
	m.readers[r.ID] = &cp
	return nil
}

func (m *memReaderRepo) ListActive(ctx context.Context) ([]*reader.Reader, error) {
	all, _ := m.ListAll(ctx)
	out := make([]*reader.Reader, 0, len(all))
	for _, r := range all {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReaderRepo) ListAll(_ context.Context) ([]*reader.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*reader.Reader, 0, len(m.readers))
	for _, r := range m.readers {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memCheckInRepo struct {
	mu       sync.Mutex
	checkins []checkin.CheckIn
	failList error
}

func (m *memCheckInRepo) Record(_ context.Context, c *checkin.CheckIn) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.checkins {
		if existing.ReaderID == c.ReaderID && sameDate(existing.ReadingDate, c.ReadingDate) {
			return false, nil
		}
	}
	c.ID = int64(len(m.checkins) + 1)
	c.CreatedAt = time.Now()
	m.checkins = append(m.checkins, *c)
	return true, nil
}

func (m *memCheckInRepo) Exists(_ context.Context, readerID int64, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.checkins {
		if c.ReaderID == readerID && sameDate(c.ReadingDate, date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCheckInRepo) ListDates(ctx context.Context, readerID int64) ([]time.Time, error) {
	return m.ListDatesBetween(ctx, readerID, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (m *memCheckInRepo) ListDatesBetween(_ context.Context, readerID int64, from, to time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var out []time.Time
	for _, c := range m.checkins {
		if c.ReaderID != readerID || c.ReadingDate.Before(from) || c.ReadingDate.After(to) {
			continue
		}
		out = append(out, c.ReadingDate)
	}
	return out, nil
}

func (m *memCheckInRepo) CountByReader(ctx context.Context, readerID int64) (int, error) {
	dates, err := m.ListDates(ctx, readerID)
	return len(dates), err
}

func (m *memCheckInRepo) CountByDate(_ context.Context, date time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.checkins {
		if sameDate(c.ReadingDate, date) {
			n++
		}
	}
	return n, nil
}

func (m *memCheckInRepo) ListCheckedInReaderIDs(_ context.Context, readerIDs []int64, date time.Time) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range readerIDs {
		want[id] = true
	}
	var out []int64
	for _, c := range m.checkins {
		if want[c.ReaderID] && sameDate(c.ReadingDate, date) {
			out = append(out, c.ReaderID)
		}
	}
	return out, nil
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type sentMessage struct {
	chatID int64
	text   string
	opts   *telebot.SendOptions
}

type fakeMessenger struct {
	mu     sync.Mutex
	sent   []sentMessage
	failTo map[int64]bool
}

func (f *fakeMessenger) SendMessage(chatID int64, text string, opts *telebot.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[chatID] {
		return errors.New("telegram: bot was blocked by the user")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
