package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	birthdaysCollection = "birthdays"
	remindersCollection = "reminders"
)

// Firestore is a Store backed by a Google Cloud Firestore project.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore connects to the given project. credentialsFile may be empty,
// in which case application default credentials are used.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project ID is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &Firestore{client: client}, nil
}

func (f *Firestore) AppendBirthday(ctx context.Context, b *Birthday) error {
	ref, _, err := f.client.Collection(birthdaysCollection).Add(ctx, b)
	if err != nil {
		return fmt.Errorf("%w: add birthday: %v", ErrPersistence, err)
	}
	b.ID = ref.ID
	return nil
}

func (f *Firestore) ListBirthdays(ctx context.Context, chatID int64) ([]Birthday, error) {
	query := f.client.Collection(birthdaysCollection).Where("chat_id", "==", chatID)
	return f.collectBirthdays(ctx, query.Documents(ctx))
}

func (f *Firestore) AllBirthdays(ctx context.Context) ([]Birthday, error) {
	return f.collectBirthdays(ctx, f.client.Collection(birthdaysCollection).Documents(ctx))
}

func (f *Firestore) collectBirthdays(_ context.Context, iter *firestore.DocumentIterator) ([]Birthday, error) {
	defer iter.Stop()

	var out []Birthday
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: iterate birthdays: %v", ErrPersistence, err)
		}

		var b Birthday
		if err := doc.DataTo(&b); err != nil {
			return nil, fmt.Errorf("%w: decode birthday %s: %v", ErrPersistence, doc.Ref.ID, err)
		}
		b.ID = doc.Ref.ID
		out = append(out, b)
	}
	return out, nil
}

// MarkBirthdayNotified claims the per-day slot inside a transaction so two
// concurrent scans can't both see the stale marker.
func (f *Firestore) MarkBirthdayNotified(ctx context.Context, id, day string) (bool, error) {
	ref := f.client.Collection(birthdaysCollection).Doc(id)

	claimed := false
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var b Birthday
		if err := doc.DataTo(&b); err != nil {
			return err
		}
		if b.LastNotified == day {
			return nil
		}

		claimed = true
		return tx.Update(ref, []firestore.Update{
			{Path: "last_notified", Value: day},
		})
	})
	if err != nil {
		return false, fmt.Errorf("%w: mark birthday notified: %v", ErrPersistence, err)
	}
	return claimed, nil
}

func (f *Firestore) AppendReminder(ctx context.Context, r *Reminder) error {
	ref, _, err := f.client.Collection(remindersCollection).Add(ctx, r)
	if err != nil {
		return fmt.Errorf("%w: add reminder: %v", ErrPersistence, err)
	}
	r.ID = ref.ID
	return nil
}

func (f *Firestore) ListReminders(ctx context.Context, chatID int64) ([]Reminder, error) {
	iter := f.client.Collection(remindersCollection).Where("chat_id", "==", chatID).Documents(ctx)
	defer iter.Stop()

	var out []Reminder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: iterate reminders: %v", ErrPersistence, err)
		}

		var r Reminder
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("%w: decode reminder %s: %v", ErrPersistence, doc.Ref.ID, err)
		}
		r.ID = doc.Ref.ID
		out = append(out, r)
	}
	return out, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
