package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevesbot/jeeves/internal/store"
	"github.com/jeevesbot/jeeves/internal/timeutil"
)

func TestScan_NotifiesDueBirthdays(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sender := &recordingSender{}

	require.NoError(t, st.AppendBirthday(ctx, &store.Birthday{ChatID: 10, Name: "Alex", Year: 2000, Month: time.December, Day: 20}))
	require.NoError(t, st.AppendBirthday(ctx, &store.Birthday{ChatID: 11, Name: "Sarah", Year: 1995, Month: time.June, Day: 1}))

	watcher := NewWatcher(st, sender, time.Hour, 0)
	defer watcher.Stop()

	asOf := time.Date(2025, 12, 19, 9, 0, 0, 0, time.UTC)
	watcher.Scan(asOf)

	require.Len(t, sender.messages(), 1)
	assert.Equal(t, "🎉 Reminder: Tomorrow is Alex's birthday!", sender.messages()[0])
	assert.Equal(t, int64(10), sender.chatIDs()[0])
}

func TestScan_IdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sender := &recordingSender{}

	require.NoError(t, st.AppendBirthday(ctx, &store.Birthday{ChatID: 10, Name: "Alex", Month: time.December, Day: 20}))

	watcher := NewWatcher(st, sender, time.Hour, 0)
	defer watcher.Stop()

	asOf := time.Date(2025, 12, 19, 9, 0, 0, 0, time.UTC)
	watcher.Scan(asOf)
	watcher.Scan(asOf)
	// Drifted second run later the same day.
	watcher.Scan(asOf.Add(5 * time.Hour))

	assert.Len(t, sender.messages(), 1, "same calendar day must notify at most once")

	// The next year opens a new slot.
	watcher.Scan(asOf.AddDate(1, 0, 0))
	assert.Len(t, sender.messages(), 2)
}

func TestScan_SentinelYearMatchesOnMonthDay(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sender := &recordingSender{}

	require.NoError(t, st.AppendBirthday(ctx, &store.Birthday{
		ChatID: 10, Name: "Aadithya", Year: timeutil.SentinelYear, Month: time.April, Day: 6,
	}))

	watcher := NewWatcher(st, sender, time.Hour, 0)
	defer watcher.Stop()

	watcher.Scan(time.Date(2025, 4, 5, 9, 0, 0, 0, time.UTC))
	assert.Len(t, sender.messages(), 1)
}

func TestScan_SeesWritesBetweenPasses(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sender := &recordingSender{}

	watcher := NewWatcher(st, sender, time.Hour, 0)
	defer watcher.Stop()

	asOf := time.Date(2025, 12, 19, 9, 0, 0, 0, time.UTC)
	watcher.Scan(asOf)
	assert.Empty(t, sender.messages())

	// A save landing after the first pass is picked up by the next one.
	require.NoError(t, st.AppendBirthday(ctx, &store.Birthday{ChatID: 10, Name: "Alex", Month: time.December, Day: 20}))
	watcher.Scan(asOf)
	assert.Len(t, sender.messages(), 1)
}

func TestWatcher_StartRunsAfterInitialDelay(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sender := &recordingSender{}

	due := time.Now().AddDate(0, 0, 1)
	require.NoError(t, st.AppendBirthday(ctx, &store.Birthday{ChatID: 10, Name: "Alex", Month: due.Month(), Day: due.Day()}))

	watcher := NewWatcher(st, sender, time.Hour, 10*time.Millisecond)
	watcher.Start()
	defer watcher.Stop()

	require.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 5*time.Millisecond)
}
