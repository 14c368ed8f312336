package schedule

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jeevesbot/jeeves/internal/store"
)

// ErrPastDue is returned when a reminder's fire time is not strictly in the
// future; such reminders are rejected, never armed.
var ErrPastDue = errors.New("reminder time is in the past")

const deliveryTimeout = 30 * time.Second

// Sender delivers a text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Scheduler arms one timer per accepted reminder. Each reminder runs in its
// own goroutine so a blocked delivery never delays another timer. Delivery
// is a single best-effort attempt; failures are logged, not retried.
type Scheduler struct {
	sender Sender
	clock  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(sender Sender) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sender: sender,
		clock:  time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule validates and arms a reminder. A stopped scheduler accepts
// nothing, so Schedule never races Stop's wait.
func (s *Scheduler) Schedule(rec *store.Reminder) error {
	if s.ctx.Err() != nil {
		return fmt.Errorf("scheduler stopped")
	}

	delay := rec.FireAt.Sub(s.clock())
	if delay <= 0 {
		return fmt.Errorf("%w: %s", ErrPastDue, rec.FireAt.Format("2006-01-02 03:04 PM"))
	}

	s.wg.Add(1)
	go s.fireAfter(delay, rec.ChatID, rec.Content)
	return nil
}

func (s *Scheduler) fireAfter(delay time.Duration, chatID int64, content string) {
	defer s.wg.Done()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-s.ctx.Done():
		return
	case <-timer.C:
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := s.sender.SendText(ctx, chatID, "⏰ Reminder: "+content); err != nil {
		log.Printf("scheduler: reminder delivery failed for chat %d: %v", chatID, err)
	}
}

// Stop cancels all pending timers and waits for in-flight deliveries.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
