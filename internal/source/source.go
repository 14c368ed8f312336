package source

import "time"

// Message is a single incoming chat message, normalized for the dispatcher.
type Message struct {
	ChatID     int64
	SenderName string
	Text       string
	Timestamp  time.Time
}
