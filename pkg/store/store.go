// Package store keeps the persistent state of marsh in a bolt database.
// The only table currently is the directory history consulted by the cdh
// builtin.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketDir = "dir"

var initDB = map[string]func(tx *bolt.Tx) error{}

// Store is the persistent store backed by a bolt database.
type Store struct {
	db *bolt.DB
}

// NewStore opens the database file, creating it and any missing tables.
func NewStore(dbname string) (*Store, error) {
	db, err := bolt.Open(dbname, 0644,
		&bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return &initError{name, err}
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

type initError struct {
	what string
	err  error
}

func (e *initError) Error() string {
	return "failed to " + e.what + ": " + e.err.Error()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
