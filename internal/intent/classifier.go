package intent

import (
	"context"
	"fmt"
	"strings"
)

// Intent is the classified purpose of a user utterance.
type Intent int

const (
	// Unknown is returned when a birthday-related utterance can't be
	// disambiguated into save or list.
	Unknown Intent = iota
	Chat
	SetReminder
	SaveBirthday
	ListBirthdays
	ShowTime
)

func (i Intent) String() string {
	switch i {
	case Chat:
		return "chat"
	case SetReminder:
		return "set_reminder"
	case SaveBirthday:
		return "save_birthday"
	case ListBirthdays:
		return "list_birthdays"
	case ShowTime:
		return "show_time"
	default:
		return "unknown"
	}
}

// Oracle is the minimal language-model surface the classifier needs.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	reminderKeywords = []string{"remind", "reminder"}
	timeKeywords     = []string{"time", "what's the time", "current time"}
	birthdayKeywords = []string{"birthday", "birthdays"}
)

// Classifier decides which intent a raw utterance expresses. Tier 1 is
// deterministic keyword matching in priority order reminder > time >
// birthday > chat. Tier 2 asks the oracle to split birthday utterances
// into save vs list. Classify has no side effects.
type Classifier struct {
	oracle Oracle
}

func NewClassifier(oracle Oracle) *Classifier {
	return &Classifier{oracle: oracle}
}

func (c *Classifier) Classify(ctx context.Context, text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Chat
	}

	switch {
	case containsAny(normalized, reminderKeywords):
		return SetReminder
	case containsAny(normalized, timeKeywords):
		return ShowTime
	case containsAny(normalized, birthdayKeywords):
		return c.classifyBirthday(ctx, text, normalized)
	default:
		return Chat
	}
}

// classifyBirthday disambiguates save vs list. Each condition is an oracle
// yes/no probe AND-ed with a keyword hint. Save wins when both hold, since
// the two conditions are not mutually exclusive.
func (c *Classifier) classifyBirthday(ctx context.Context, raw, normalized string) Intent {
	wantsSave := strings.Contains(normalized, "save") &&
		c.confirms(ctx, fmt.Sprintf("Does the following input suggest an intention to save a birthday: %q", raw))
	if wantsSave {
		return SaveBirthday
	}

	wantsList := strings.Contains(normalized, "show") &&
		c.confirms(ctx, fmt.Sprintf("Does the following input suggest an intention to retrieve birthday details or show the birthday details: %q", raw))
	if wantsList {
		return ListBirthdays
	}

	return Unknown
}

// confirms asks the oracle a yes/no question. Any failure or answer other
// than the literal "true" counts as false; this never returns an error.
func (c *Classifier) confirms(ctx context.Context, condition string) bool {
	if c.oracle == nil {
		return false
	}

	response, err := c.oracle.Complete(ctx, fmt.Sprintf(confirmPrompt, condition))
	if err != nil {
		return false
	}

	return strings.ToLower(strings.TrimSpace(response)) == "true"
}

const confirmPrompt = `Respond only with 'true' or 'false' based on the following input:
%s
Rules:
1. Return 'true' if the input clearly suggests the action.
2. Return 'false' if the input does not suggest the action.
3. Do not include any additional text or explanations.
Example:
Input: 'Save the birthday of Akhil on 6th April 2001'
Output: true
Input: 'What's the weather today?'
Output: false
Input: 'Show all birthdays'
Output: true`

func containsAny(text string, values []string) bool {
	for _, v := range values {
		if strings.Contains(text, v) {
			return true
		}
	}
	return false
}
