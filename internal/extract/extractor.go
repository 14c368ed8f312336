package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jeevesbot/jeeves/internal/timeutil"
)

// Oracle is the minimal language-model surface the extractor needs.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReminderSlots is the structured result of reminder extraction.
type ReminderSlots struct {
	FireAt  time.Time
	Content string
}

// BirthdaySlots is the structured result of birthday extraction. Year is
// timeutil.SentinelYear when the utterance gave no year.
type BirthdaySlots struct {
	Name  string
	Year  int
	Month time.Month
	Day   int
}

// Display returns the "DD-MonthName-YYYY" form used in confirmations.
func (b BirthdaySlots) Display() string {
	return timeutil.FormatBirthdate(b.Year, b.Month, b.Day)
}

// Extractor turns free text into typed records by prompting the oracle for
// a fixed-key JSON object and validating everything it returns. The oracle
// is never trusted for structural correctness.
type Extractor struct {
	oracle Oracle
}

func New(oracle Oracle) *Extractor {
	return &Extractor{oracle: oracle}
}

// Reminder extracts {time, date, content} and combines them into one
// absolute timestamp in now's location. A missing date means today.
func (e *Extractor) Reminder(ctx context.Context, utterance string, now time.Time) (*ReminderSlots, error) {
	prompt := fmt.Sprintf(reminderPrompt, utterance, now.Format("2006-01-02"))
	raw, err := e.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Time    string `json:"time"`
		Date    string `json:"date"`
		Content string `json:"content"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	if strings.TrimSpace(payload.Time) == "" || strings.TrimSpace(payload.Content) == "" {
		return nil, fmt.Errorf("%w: reminder needs time and content", ErrIncompleteExtraction)
	}
	if strings.TrimSpace(payload.Date) == "" {
		payload.Date = now.Format("2006-01-02")
	}

	fireAt, err := timeutil.CombineDateClock(payload.Date, payload.Time, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableDateTime, err)
	}

	return &ReminderSlots{FireAt: fireAt, Content: strings.TrimSpace(payload.Content)}, nil
}

// Birthday extracts {name, birthdate} and normalizes the ISO birthdate into
// calendar fields plus the display rendering.
func (e *Extractor) Birthday(ctx context.Context, utterance string) (*BirthdaySlots, error) {
	raw, err := e.complete(ctx, fmt.Sprintf(birthdayPrompt, utterance))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Name      string `json:"name"`
		Birthdate string `json:"birthdate"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" || strings.TrimSpace(payload.Birthdate) == "" {
		return nil, fmt.Errorf("%w: birthday needs name and birthdate", ErrIncompleteExtraction)
	}

	year, month, day, err := timeutil.ParseBirthdate(payload.Birthdate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableDateTime, err)
	}

	return &BirthdaySlots{Name: name, Year: year, Month: month, Day: day}, nil
}

func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	if e.oracle == nil {
		return "", fmt.Errorf("%w: no oracle configured", ErrOracleUnavailable)
	}

	raw, err := e.oracle.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty response", ErrOracleUnavailable)
	}
	return raw, nil
}

// unmarshalObject locates the brace span in raw and parses it into dst.
func unmarshalObject(raw string, dst any) error {
	span, ok := extractObject(raw)
	if !ok {
		return fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(span), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
