package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and brings the schema
// up to date. WAL mode and a busy timeout keep concurrent scan and save
// operations from failing on lock contention.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS birthdays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			day INTEGER NOT NULL,
			last_notified TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_birthdays_chat ON birthdays(chat_id)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			fire_at DATETIME NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_chat ON reminders(chat_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	_, err := db.Exec(`INSERT OR IGNORE INTO schema_migrations (version) VALUES (1)`)
	return err
}

func (s *SQLite) AppendBirthday(ctx context.Context, b *Birthday) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO birthdays (chat_id, name, year, month, day, last_notified)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ChatID, b.Name, b.Year, int(b.Month), b.Day, nullable(b.LastNotified))
	if err != nil {
		return fmt.Errorf("%w: insert birthday: %v", ErrPersistence, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: birthday id: %v", ErrPersistence, err)
	}
	b.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *SQLite) ListBirthdays(ctx context.Context, chatID int64) ([]Birthday, error) {
	return s.queryBirthdays(ctx, `
		SELECT id, chat_id, name, year, month, day, last_notified
		FROM birthdays WHERE chat_id = ? ORDER BY id
	`, chatID)
}

func (s *SQLite) AllBirthdays(ctx context.Context) ([]Birthday, error) {
	return s.queryBirthdays(ctx, `
		SELECT id, chat_id, name, year, month, day, last_notified
		FROM birthdays ORDER BY id
	`)
}

func (s *SQLite) queryBirthdays(ctx context.Context, query string, args ...any) ([]Birthday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query birthdays: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var out []Birthday
	for rows.Next() {
		var b Birthday
		var id int64
		var month int
		var lastNotified sql.NullString

		if err := rows.Scan(&id, &b.ChatID, &b.Name, &b.Year, &month, &b.Day, &lastNotified); err != nil {
			return nil, fmt.Errorf("%w: scan birthday: %v", ErrPersistence, err)
		}

		b.ID = strconv.FormatInt(id, 10)
		b.Month = time.Month(month)
		if lastNotified.Valid {
			b.LastNotified = lastNotified.String
		}
		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate birthdays: %v", ErrPersistence, err)
	}
	return out, nil
}

// MarkBirthdayNotified is a compare-and-set on the last_notified column;
// only the first caller per day sees a changed row.
func (s *SQLite) MarkBirthdayNotified(ctx context.Context, id, day string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE birthdays
		SET last_notified = ?
		WHERE id = ? AND (last_notified IS NULL OR last_notified <> ?)
	`, day, id, day)
	if err != nil {
		return false, fmt.Errorf("%w: mark birthday notified: %v", ErrPersistence, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected: %v", ErrPersistence, err)
	}
	return rowsAffected > 0, nil
}

func (s *SQLite) AppendReminder(ctx context.Context, r *Reminder) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (chat_id, fire_at, content) VALUES (?, ?, ?)
	`, r.ChatID, r.FireAt, r.Content)
	if err != nil {
		return fmt.Errorf("%w: insert reminder: %v", ErrPersistence, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: reminder id: %v", ErrPersistence, err)
	}
	r.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *SQLite) ListReminders(ctx context.Context, chatID int64) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, fire_at, content
		FROM reminders WHERE chat_id = ? ORDER BY fire_at
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("%w: query reminders: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var r Reminder
		var id int64
		if err := rows.Scan(&id, &r.ChatID, &r.FireAt, &r.Content); err != nil {
			return nil, fmt.Errorf("%w: scan reminder: %v", ErrPersistence, err)
		}
		r.ID = strconv.FormatInt(id, 10)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate reminders: %v", ErrPersistence, err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
