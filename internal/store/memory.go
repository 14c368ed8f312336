package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Memory is an in-process Store for tests and throwaway runs.
type Memory struct {
	mu        sync.RWMutex
	birthdays []Birthday
	reminders []Reminder
	nextID    int64
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AppendBirthday(_ context.Context, b *Birthday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	b.ID = strconv.FormatInt(m.nextID, 10)
	m.birthdays = append(m.birthdays, *b)
	return nil
}

func (m *Memory) ListBirthdays(_ context.Context, chatID int64) ([]Birthday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Birthday
	for _, b := range m.birthdays {
		if b.ChatID == chatID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Memory) AllBirthdays(_ context.Context) ([]Birthday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Birthday, len(m.birthdays))
	copy(out, m.birthdays)
	return out, nil
}

func (m *Memory) MarkBirthdayNotified(_ context.Context, id, day string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.birthdays {
		if m.birthdays[i].ID != id {
			continue
		}
		if m.birthdays[i].LastNotified == day {
			return false, nil
		}
		m.birthdays[i].LastNotified = day
		return true, nil
	}
	return false, fmt.Errorf("%w: birthday %s not found", ErrPersistence, id)
}

func (m *Memory) AppendReminder(_ context.Context, r *Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	r.ID = strconv.FormatInt(m.nextID, 10)
	m.reminders = append(m.reminders, *r)
	return nil
}

func (m *Memory) ListReminders(_ context.Context, chatID int64) ([]Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Reminder
	for _, r := range m.reminders {
		if r.ChatID == chatID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
