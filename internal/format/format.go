// Package format renders structured results into user-facing text. All
// functions are pure: no network, storage, or clock access.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/jeevesbot/jeeves/internal/extract"
	"github.com/jeevesbot/jeeves/internal/schedule"
	"github.com/jeevesbot/jeeves/internal/store"
)

const (
	// TimeAnimationURL accompanies the time/date card.
	TimeAnimationURL = "https://media.giphy.com/media/3o7abKhOpu0NwenH3O/giphy.gif"

	birthdayGifURL = "https://giphy.com/gifs/MickeyMouse-fun-excited-disney-Im6d35ebkCIiGzonjI"

	NoBirthdays = "🎉 No birthdays found."

	// UnclearRequest is the reply for a birthday mention that disambiguates
	// to neither save nor list.
	UnclearRequest = "Sorry, I couldn't understand your request. Please try again."
)

// BirthdayTable renders a chat's birthday records. The empty case is a
// distinct message, never an empty table.
func BirthdayTable(birthdays []store.Birthday) string {
	if len(birthdays) == 0 {
		return NoBirthdays
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"🎈 Name", "📅 Birthdate"})
	for _, b := range birthdays {
		table.Append([]string{b.Name, b.Display()})
	}
	table.Render()

	return fmt.Sprintf("🎉 All Birthdays:\n\n%s\n🎂 Celebrate with joy! 🎉\n%s", buf.String(), birthdayGifURL)
}

// ReminderConfirmation confirms an armed reminder with its absolute time.
func ReminderConfirmation(fireAt time.Time, content string) string {
	return fmt.Sprintf("Reminder set for %s: %s", fireAt.Format("2006-01-02 03:04 PM"), content)
}

// BirthdaySaved confirms a persisted birthday record.
func BirthdaySaved(name, birthdate string) string {
	return fmt.Sprintf("🎉 Birthday saved for %s on %s.", name, birthdate)
}

// TimeCard renders the caption sent with the animation. Plain text only:
// the transport sends captions without formatting entities.
func TimeCard(now time.Time) string {
	return fmt.Sprintf("🕒 Time: %s\n📅 Date: %s",
		now.Format("03:04 PM"), now.Format("2006-01-02"))
}

// UserMessage maps a pipeline failure to the one fixed reply for its kind.
// Unrecognized errors get a generic apology; nothing propagates further.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, extract.ErrOracleUnavailable):
		return "Sorry, I couldn't reach my language service. Please try again."
	case errors.Is(err, extract.ErrMalformedResponse),
		errors.Is(err, extract.ErrIncompleteExtraction),
		errors.Is(err, extract.ErrUnparsableDateTime):
		return "Sorry, I couldn't understand that. Please try rephrasing."
	case errors.Is(err, schedule.ErrPastDue):
		return "That time is already in the past. Please give me a future time."
	case errors.Is(err, store.ErrPersistence):
		return "Sorry, I couldn't save that right now. Please try again."
	default:
		return "Sorry, I couldn't process your message. Please try again."
	}
}
