// Package dispatch consumes incoming messages and routes each one through
// classification, extraction, and the matching action.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jeevesbot/jeeves/internal/extract"
	"github.com/jeevesbot/jeeves/internal/format"
	"github.com/jeevesbot/jeeves/internal/intent"
	"github.com/jeevesbot/jeeves/internal/schedule"
	"github.com/jeevesbot/jeeves/internal/source"
	"github.com/jeevesbot/jeeves/internal/store"
)

const (
	defaultWorkerCount = 2
	handleTimeout      = 2 * time.Minute
)

// Transport delivers replies back to a chat.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendAnimation(ctx context.Context, chatID int64, url, caption string) error
}

// Oracle is the free-form chat surface.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Dispatcher handles incoming messages from the source channel. Each message
// is classified, then handled by exactly one intent path; every path ends in
// exactly one reply to the originating chat.
type Dispatcher struct {
	classifier  *intent.Classifier
	extractor   *extract.Extractor
	oracle      Oracle
	store       store.Store
	scheduler   *schedule.Scheduler
	transport   Transport
	msgChan     <-chan source.Message
	workerCount int
	clock       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	classifier *intent.Classifier,
	extractor *extract.Extractor,
	oracle Oracle,
	st store.Store,
	scheduler *schedule.Scheduler,
	transport Transport,
	msgChan <-chan source.Message,
	workerCount int,
) *Dispatcher {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		classifier:  classifier,
		extractor:   extractor,
		oracle:      oracle,
		store:       st,
		scheduler:   scheduler,
		transport:   transport,
		msgChan:     msgChan,
		workerCount: workerCount,
		clock:       time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing messages from the channel.
func (d *Dispatcher) Start() {
	fmt.Println("Dispatcher started")

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.processLoop()
	}
}

// Stop gracefully shuts down the workers.
func (d *Dispatcher) Stop() {
	fmt.Println("Stopping dispatcher...")
	d.cancel()
	d.wg.Wait()
	fmt.Println("Dispatcher stopped")
}

// processLoop continuously reads messages from the channel and handles them.
func (d *Dispatcher) processLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case msg, ok := <-d.msgChan:
			if !ok {
				fmt.Println("Dispatcher: message channel closed")
				return
			}
			d.handle(msg)
		}
	}
}

// handle routes one message. It never returns an error: every failure is
// converted into a user-facing reply and logged here.
func (d *Dispatcher) handle(msg source.Message) {
	ctx, cancel := context.WithTimeout(d.ctx, handleTimeout)
	defer cancel()

	which := d.classifier.Classify(ctx, msg.Text)
	fmt.Printf("Dispatcher: chat %d intent=%s text=%s\n", msg.ChatID, which, truncate(msg.Text, 50))

	var reply string
	switch which {
	case intent.SetReminder:
		reply = d.setReminder(ctx, msg)
	case intent.SaveBirthday:
		reply = d.saveBirthday(ctx, msg)
	case intent.ListBirthdays:
		reply = d.listBirthdays(ctx, msg)
	case intent.ShowTime:
		d.showTime(ctx, msg)
		return
	case intent.Unknown:
		reply = format.UnclearRequest
	default:
		reply = d.chat(ctx, msg)
	}

	if err := d.transport.SendText(ctx, msg.ChatID, reply); err != nil {
		fmt.Printf("Dispatcher: reply to chat %d failed: %v\n", msg.ChatID, err)
	}
}

// setReminder extracts the slots, arms the timer, and records the reminder.
// Scheduling comes first: a rejected reminder is never persisted. Once the
// timer is armed a persistence failure is logged, not surfaced.
func (d *Dispatcher) setReminder(ctx context.Context, msg source.Message) string {
	slots, err := d.extractor.Reminder(ctx, msg.Text, d.clock())
	if err != nil {
		fmt.Printf("Dispatcher: reminder extraction failed: %v\n", err)
		return format.UserMessage(err)
	}

	rec := &store.Reminder{ChatID: msg.ChatID, FireAt: slots.FireAt, Content: slots.Content}
	if err := d.scheduler.Schedule(rec); err != nil {
		return format.UserMessage(err)
	}

	if err := d.store.AppendReminder(ctx, rec); err != nil {
		fmt.Printf("Warning: failed to persist reminder: %v\n", err)
	}
	return format.ReminderConfirmation(slots.FireAt, slots.Content)
}

func (d *Dispatcher) saveBirthday(ctx context.Context, msg source.Message) string {
	slots, err := d.extractor.Birthday(ctx, msg.Text)
	if err != nil {
		fmt.Printf("Dispatcher: birthday extraction failed: %v\n", err)
		return format.UserMessage(err)
	}

	rec := &store.Birthday{
		ChatID: msg.ChatID,
		Name:   slots.Name,
		Year:   slots.Year,
		Month:  slots.Month,
		Day:    slots.Day,
	}
	if err := d.store.AppendBirthday(ctx, rec); err != nil {
		fmt.Printf("Dispatcher: failed to persist birthday: %v\n", err)
		return format.UserMessage(err)
	}
	return format.BirthdaySaved(slots.Name, slots.Display())
}

func (d *Dispatcher) listBirthdays(ctx context.Context, msg source.Message) string {
	birthdays, err := d.store.ListBirthdays(ctx, msg.ChatID)
	if err != nil {
		fmt.Printf("Dispatcher: failed to list birthdays: %v\n", err)
		return format.UserMessage(err)
	}
	return format.BirthdayTable(birthdays)
}

// showTime replies with the animated time card instead of a plain text
// message.
func (d *Dispatcher) showTime(ctx context.Context, msg source.Message) {
	caption := format.TimeCard(d.clock())
	if err := d.transport.SendAnimation(ctx, msg.ChatID, format.TimeAnimationURL, caption); err != nil {
		fmt.Printf("Dispatcher: time card to chat %d failed: %v\n", msg.ChatID, err)
	}
}

// chat passes the utterance straight through to the oracle.
func (d *Dispatcher) chat(ctx context.Context, msg source.Message) string {
	response, err := d.oracle.Complete(ctx, msg.Text)
	if err != nil {
		fmt.Printf("Dispatcher: chat completion failed: %v\n", err)
		return "Sorry, I couldn't process your message. Please try again."
	}
	return response
}

// truncate shortens a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
