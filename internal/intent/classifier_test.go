package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// scriptedOracle answers yes/no probes by matching substrings of the prompt.
type scriptedOracle struct {
	answers map[string]string
	err     error
	calls   int
}

func (o *scriptedOracle) Complete(_ context.Context, prompt string) (string, error) {
	o.calls++
	if o.err != nil {
		return "", o.err
	}
	for needle, answer := range o.answers {
		if strings.Contains(prompt, needle) {
			return answer, nil
		}
	}
	return "false", nil
}

func TestClassify_KeywordPrecedence(t *testing.T) {
	classifier := NewClassifier(&scriptedOracle{})

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"remind wins over everything", "remind me about the birthday party at 5", SetReminder},
		{"reminder keyword", "set a reminder for tomorrow", SetReminder},
		{"time keyword", "what's the time", ShowTime},
		{"time wins over birthday", "what time is the birthday?", ShowTime},
		{"plain chat", "tell me a joke", Chat},
		{"empty input", "   ", Chat},
		{"case insensitive", "REMIND me to stretch", SetReminder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(context.Background(), tt.text))
		})
	}
}

func TestClassify_BirthdaySaveVsList(t *testing.T) {
	t.Run("save intent", func(t *testing.T) {
		oracle := &scriptedOracle{answers: map[string]string{"save a birthday": "true"}}
		classifier := NewClassifier(oracle)

		got := classifier.Classify(context.Background(), "Save the birthday of Alex as 20-12-2000")
		assert.Equal(t, SaveBirthday, got)
	})

	t.Run("list intent", func(t *testing.T) {
		oracle := &scriptedOracle{answers: map[string]string{"retrieve birthday details": "true"}}
		classifier := NewClassifier(oracle)

		got := classifier.Classify(context.Background(), "Show all birthdays")
		assert.Equal(t, ListBirthdays, got)
	})

	t.Run("save wins when both conditions hold", func(t *testing.T) {
		oracle := &scriptedOracle{answers: map[string]string{
			"save a birthday":           "true",
			"retrieve birthday details": "true",
		}}
		classifier := NewClassifier(oracle)

		got := classifier.Classify(context.Background(), "save and show the birthday of Alex")
		assert.Equal(t, SaveBirthday, got)
	})

	t.Run("keyword hint required", func(t *testing.T) {
		// Oracle says yes but neither "save" nor "show" appears.
		oracle := &scriptedOracle{answers: map[string]string{"birthday": "true"}}
		classifier := NewClassifier(oracle)

		got := classifier.Classify(context.Background(), "birthday stuff please")
		assert.Equal(t, Unknown, got)
		assert.Zero(t, oracle.calls, "oracle should not be probed without a keyword hint")
	})

	t.Run("oracle failure treated as false", func(t *testing.T) {
		oracle := &scriptedOracle{err: errors.New("boom")}
		classifier := NewClassifier(oracle)

		got := classifier.Classify(context.Background(), "save the birthday of Alex")
		assert.Equal(t, Unknown, got)
	})

	t.Run("garbage oracle answer treated as false", func(t *testing.T) {
		oracle := &scriptedOracle{answers: map[string]string{"save a birthday": "maybe?"}}
		classifier := NewClassifier(oracle)

		got := classifier.Classify(context.Background(), "save the birthday of Alex")
		assert.Equal(t, Unknown, got)
	})

	t.Run("nil oracle never panics", func(t *testing.T) {
		classifier := NewClassifier(nil)

		got := classifier.Classify(context.Background(), "save the birthday of Alex")
		assert.Equal(t, Unknown, got)
	})
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "set_reminder", SetReminder.String())
	assert.Equal(t, "unknown", Unknown.String())
}
