// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const credentialKeyPrefix = "credential:"

// Opening a badger directory takes an exclusive lock. When another
// facetrack process (usually `facetrack watch`) holds it, opens are retried.
const (
	openAttempts = 5
	openBackoff  = 50 * time.Millisecond
)

// BadgerStore persists credentials in BadgerDB.
//
// A store built with NewBadgerStore uses the caller's open database. A
// store built with NewBadgerStoreAt opens the directory for each operation
// and closes it again, so several CLI processes can share one directory.
type BadgerStore struct {
	db   *badger.DB
	path string
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore wraps an already open database. Close does not close db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// NewBadgerStoreAt returns a store backed by the directory at path.
func NewBadgerStoreAt(path string) *BadgerStore {
	return &BadgerStore{path: path}
}

func (s *BadgerStore) withDB(ctx context.Context, fn func(db *badger.DB) error) error {
	if s.db != nil {
		return fn(s.db)
	}

	if err := os.MkdirAll(s.path, 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	opts := badger.DefaultOptions(s.path)
	opts.Logger = nil

	var db *badger.DB
	var err error
	for attempt := 0; attempt < openAttempts; attempt++ {
		db, err = badger.Open(opts)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(openBackoff << attempt):
		}
	}
	if err != nil {
		return fmt.Errorf("open credential store %s: %w", s.path, err)
	}
	defer db.Close()
	return fn(db)
}

func badgerKey(key Key) []byte {
	return []byte(credentialKeyPrefix + string(key))
}

// Get retrieves a credential. Missing keys return ErrNotFound.
func (s *BadgerStore) Get(ctx context.Context, key Key) (string, error) {
	var value string
	err := s.withDB(ctx, func(db *badger.DB) error {
		return db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(badgerKey(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", key, err)
			}
			return item.Value(func(val []byte) error {
				value = string(val)
				return nil
			})
		})
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a credential.
func (s *BadgerStore) Set(ctx context.Context, key Key, value string) error {
	return s.withDB(ctx, func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			if err := txn.Set(badgerKey(key), []byte(value)); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
			return nil
		})
	})
}

// Delete removes a credential. Deleting a missing key is not an error.
func (s *BadgerStore) Delete(ctx context.Context, key Key) error {
	return s.withDB(ctx, func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			if err := txn.Delete(badgerKey(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			return nil
		})
	})
}

// Clear removes all credentials in a single transaction.
func (s *BadgerStore) Clear(ctx context.Context) error {
	return s.withDB(ctx, func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			for _, k := range AllKeys {
				if err := txn.Delete(badgerKey(k)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("delete %s: %w", k, err)
				}
			}
			return nil
		})
	})
}

// Close is a no-op: shared databases belong to the caller and per-operation
// databases are already closed.
func (s *BadgerStore) Close() error {
	return nil
}
