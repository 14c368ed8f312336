package store

import (
	"context"
	"errors"
	"time"

	"github.com/jeevesbot/jeeves/internal/timeutil"
)

// ErrPersistence wraps any backend read/write failure so the dispatch
// boundary can map it to one fixed user-facing message.
var ErrPersistence = errors.New("persistence failure")

// Reminder is an accepted reminder owned by a chat.
type Reminder struct {
	ID      string    `json:"id" firestore:"-"`
	ChatID  int64     `json:"chat_id" firestore:"chat_id"`
	FireAt  time.Time `json:"fire_at" firestore:"fire_at"`
	Content string    `json:"content" firestore:"content"`
}

// Birthday is a saved birthday record. Year is timeutil.SentinelYear when
// the year is unknown. LastNotified holds the "YYYY-MM-DD" day of the most
// recent upcoming-birthday notice and is the scan's dedup marker.
type Birthday struct {
	ID           string     `json:"id" firestore:"-"`
	ChatID       int64      `json:"chat_id" firestore:"chat_id"`
	Name         string     `json:"name" firestore:"name"`
	Year         int        `json:"year" firestore:"year"`
	Month        time.Month `json:"month" firestore:"month"`
	Day          int        `json:"day" firestore:"day"`
	LastNotified string     `json:"last_notified,omitempty" firestore:"last_notified"`
}

// Display returns the "DD-MonthName-YYYY" form used in tables and replies.
func (b Birthday) Display() string {
	return timeutil.FormatBirthdate(b.Year, b.Month, b.Day)
}

// Store persists reminders and birthdays. Implementations must be safe for
// concurrent use, and reads must reflect all completed writes — the store
// is the source of truth, never an in-process cache.
//
// Records are append-only: re-saving a name adds a second record, matching
// the save operation's contract. There is no update or delete beyond the
// notification marker.
type Store interface {
	AppendBirthday(ctx context.Context, b *Birthday) error
	// ListBirthdays returns the records owned by one chat.
	ListBirthdays(ctx context.Context, chatID int64) ([]Birthday, error)
	// AllBirthdays returns every record, for the upcoming-birthday scan.
	AllBirthdays(ctx context.Context) ([]Birthday, error)
	// MarkBirthdayNotified claims the notification slot for a record on the
	// given "YYYY-MM-DD" day. It returns true only when this call changed
	// the marker, so concurrent or repeated scans notify at most once.
	MarkBirthdayNotified(ctx context.Context, id, day string) (bool, error)

	AppendReminder(ctx context.Context, r *Reminder) error
	ListReminders(ctx context.Context, chatID int64) ([]Reminder, error)

	Close() error
}
