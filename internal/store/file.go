package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// File is a JSON-file Store. Every operation reloads from disk before
// acting, so concurrent writers within one process stay consistent; the
// mutex serializes the read-modify-write cycle.
type File struct {
	path string
	mu   sync.Mutex
}

type fileDoc struct {
	NextID    int64      `json:"next_id"`
	Birthdays []Birthday `json:"birthdays"`
	Reminders []Reminder `json:"reminders"`
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) load() (*fileDoc, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &fileDoc{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, f.path, err)
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, f.path, err)
	}
	return &doc, nil
}

func (f *File) save(doc *fileDoc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	// Write-then-rename so a crash mid-write can't truncate the store.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrPersistence, tmp, err)
	}
	return nil
}

func (f *File) AppendBirthday(_ context.Context, b *Birthday) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	doc.NextID++
	b.ID = strconv.FormatInt(doc.NextID, 10)
	doc.Birthdays = append(doc.Birthdays, *b)
	return f.save(doc)
}

func (f *File) ListBirthdays(_ context.Context, chatID int64) ([]Birthday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}

	var out []Birthday
	for _, b := range doc.Birthdays {
		if b.ChatID == chatID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *File) AllBirthdays(_ context.Context) ([]Birthday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	return doc.Birthdays, nil
}

func (f *File) MarkBirthdayNotified(_ context.Context, id, day string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return false, err
	}

	for i := range doc.Birthdays {
		if doc.Birthdays[i].ID != id {
			continue
		}
		if doc.Birthdays[i].LastNotified == day {
			return false, nil
		}
		doc.Birthdays[i].LastNotified = day
		if err := f.save(doc); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, fmt.Errorf("%w: birthday %s not found", ErrPersistence, id)
}

func (f *File) AppendReminder(_ context.Context, r *Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	doc.NextID++
	r.ID = strconv.FormatInt(doc.NextID, 10)
	doc.Reminders = append(doc.Reminders, *r)
	return f.save(doc)
}

func (f *File) ListReminders(_ context.Context, chatID int64) ([]Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}

	var out []Reminder
	for _, r := range doc.Reminders {
		if r.ChatID == chatID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *File) Close() error {
	return nil
}
