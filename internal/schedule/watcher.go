package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jeevesbot/jeeves/internal/store"
	"github.com/jeevesbot/jeeves/internal/timeutil"
)

const scanTimeout = time.Minute

// Watcher periodically scans the store for birthdays falling tomorrow and
// notifies the owning chat. Each pass reloads from the store — saves made
// since the last pass are always seen — and claims a per-record per-day
// marker before sending, so a repeated or drifting scan never
// double-notifies.
type Watcher struct {
	store        store.Store
	sender       Sender
	interval     time.Duration
	initialDelay time.Duration
	clock        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatcher(st store.Store, sender Sender, interval, initialDelay time.Duration) *Watcher {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		store:        st,
		sender:       sender,
		interval:     interval,
		initialDelay: initialDelay,
		clock:        time.Now,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the recurring scan.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	select {
	case <-w.ctx.Done():
		return
	case <-time.After(w.initialDelay):
	}
	w.Scan(w.clock())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.Scan(w.clock())
		}
	}
}

// Scan runs one pass as of the given time. Exported so tests can drive the
// clock directly.
func (w *Watcher) Scan(asOf time.Time) {
	ctx, cancel := context.WithTimeout(w.ctx, scanTimeout)
	defer cancel()

	birthdays, err := w.store.AllBirthdays(ctx)
	if err != nil {
		log.Printf("watcher: failed to load birthdays: %v", err)
		return
	}

	day := asOf.AddDate(0, 0, 1).Format("2006-01-02")
	for _, b := range birthdays {
		if !timeutil.DueTomorrow(asOf, b.Year, b.Month, b.Day) {
			continue
		}

		claimed, err := w.store.MarkBirthdayNotified(ctx, b.ID, day)
		if err != nil {
			log.Printf("watcher: failed to claim notification for %s: %v", b.Name, err)
			continue
		}
		if !claimed {
			continue
		}

		text := fmt.Sprintf("🎉 Reminder: Tomorrow is %s's birthday!", b.Name)
		if err := w.sender.SendText(ctx, b.ChatID, text); err != nil {
			log.Printf("watcher: birthday notification failed for chat %d: %v", b.ChatID, err)
		}
	}
}

// Stop halts the recurring scan and waits for an in-flight pass.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}
