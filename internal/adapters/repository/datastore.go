package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
)

// datastoreCounter is the entity shape of a counter.
type datastoreCounter struct {
	Count int64 `datastore:"count"`
}

// DatastoreStore keeps counters as entities of one kind, named by key.
type DatastoreStore struct {
	client *datastore.Client
	kind   string
}

var _ Counter = (*DatastoreStore)(nil)

// NewDatastoreStore wraps client, storing entities of kind.
func NewDatastoreStore(client *datastore.Client, kind string) *DatastoreStore {
	return &DatastoreStore{client: client, kind: kind}
}

// Add reads and writes inside one transaction. Datastore retries the
// function on contention, so next is assigned on every attempt.
func (s *DatastoreStore) Add(ctx context.Context, key string, delta int64) (int64, error) {
	k := datastore.NameKey(s.kind, key, nil)

	var next int64
	_, err := s.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		n, err := addInTx(tx, k, delta)
		if err != nil {
			return err
		}
		next = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("datastore.RunInTransaction: kind=%s, name=%s, %w", s.kind, key, err)
	}
	return next, nil
}

// entityTx is the part of *datastore.Transaction used by addInTx.
type entityTx interface {
	Get(key *datastore.Key, dst interface{}) error
	Put(key *datastore.Key, src interface{}) (*datastore.PendingKey, error)
}

var _ entityTx = (*datastore.Transaction)(nil)

// addInTx adds delta to the entity at k, treating a missing entity as
// zero, and returns the value written.
func addInTx(tx entityTx, k *datastore.Key, delta int64) (int64, error) {
	var rec datastoreCounter
	if err := tx.Get(k, &rec); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
		return 0, err
	}
	rec.Count += delta
	if _, err := tx.Put(k, &rec); err != nil {
		return 0, err
	}
	return rec.Count, nil
}
