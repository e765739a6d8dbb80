package newsletter

import "context"

// Store persists subscriber records. Implementations must make Upsert an
// insert-or-overwrite and Delete a no-op for absent keys.
type Store interface {
	// Upsert inserts or overwrites the record for sub.Email.
	Upsert(ctx context.Context, sub Subscriber) error

	// Delete removes the record for email. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, email string) error

	// List returns all stored subscribers.
	List(ctx context.Context) ([]Subscriber, error)
}
