package newsletter

import (
	"context"
	"errors"

	"github.com/hashicorp/go-memdb"
)

// MemStore is an in-memory subscriber store backed by go-memdb. It serves
// local development and tests, where no Redis is available.
type MemStore struct {
	db *memdb.MemDB
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() (*MemStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"subscriber": {
				Name: "subscriber",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &MemStore{db: db}, nil
}

// Upsert implements Store; memdb's Insert overwrites on the unique index.
func (s *MemStore) Upsert(ctx context.Context, sub Subscriber) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert("subscriber", &sub); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Delete implements Store; absent records are silently ignored.
func (s *MemStore) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := txn.Delete("subscriber", &Subscriber{Email: email}); err != nil {
		if errors.Is(err, memdb.ErrNotFound) {
			return nil
		}
		return err
	}
	txn.Commit()
	return nil
}

// List implements Store.
func (s *MemStore) List(ctx context.Context) ([]Subscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("subscriber", "id")
	if err != nil {
		return nil, err
	}

	var subs []Subscriber
	for obj := it.Next(); obj != nil; obj = it.Next() {
		subs = append(subs, *obj.(*Subscriber))
	}
	return subs, nil
}
