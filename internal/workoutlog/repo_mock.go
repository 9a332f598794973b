package workoutlog

import (
	"context"
	"sync"
	"time"

	"github.com/spartacus-fitness/backend/internal/dates"
)

type repoMock struct {
	mu      sync.Mutex
	records []LogRecord
	nextID  int

	errInsert error
	errLatest error
}

func newRepoMock() *repoMock {
	return &repoMock{
		nextID: 1,
	}
}

func (m *repoMock) Insert(_ context.Context, record LogRecord) (*LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errInsert != nil {
		return nil, m.errInsert
	}
	// same uniqueness the (user_id, log_date) index enforces
	for _, r := range m.records {
		if r.UserID == record.UserID && dates.SameDate(r.LogDate, record.LogDate) {
			return nil, ErrAlreadyLoggedToday
		}
	}
	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, record)
	return &record, nil
}

func (m *repoMock) LatestLogDate(_ context.Context, userID int) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errLatest != nil {
		return nil, m.errLatest
	}
	var latest *time.Time
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		if latest == nil || r.LogDate.After(*latest) {
			d := r.LogDate
			latest = &d
		}
	}
	return latest, nil
}

func (m *repoMock) ListLogDates(_ context.Context, userID int) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logDates := make([]time.Time, 0)
	for _, r := range m.records {
		if r.UserID == userID {
			logDates = append(logDates, r.LogDate)
		}
	}
	for i := 0; i < len(logDates); i++ {
		for j := i + 1; j < len(logDates); j++ {
			if logDates[j].After(logDates[i]) {
				logDates[i], logDates[j] = logDates[j], logDates[i]
			}
		}
	}
	return logDates, nil
}
