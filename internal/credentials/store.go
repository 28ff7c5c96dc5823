// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package credentials persists the client's authentication state: the
// access token, the refresh token and the logged-in user profile.
//
// Exactly three keys are stored. Clearing the session removes all three
// together so a partially logged-in state can never be observed.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Key names a persisted credential.
type Key string

const (
	KeyAccessToken  Key = "access_token"
	KeyRefreshToken Key = "refresh_token"
	KeyUser         Key = "user"
)

// AllKeys lists every key Clear removes.
var AllKeys = []Key{KeyAccessToken, KeyRefreshToken, KeyUser}

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("credential not found")

// Store is a small key/value store for credentials.
type Store interface {
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value string) error
	Delete(ctx context.Context, key Key) error

	// Clear removes every key in AllKeys.
	Clear(ctx context.Context) error

	Close() error
}

// Store types accepted by Open.
const (
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Open builds the configured store. A non-empty encryptionKey wraps the
// store so values are encrypted at rest.
func Open(storeType, path, encryptionKey string) (Store, error) {
	var store Store
	switch storeType {
	case StoreMemory:
		store = NewMemoryStore()
	case StoreBadger, "":
		store = NewBadgerStoreAt(path)
	default:
		return nil, fmt.Errorf("unknown credential store type %q", storeType)
	}

	if encryptionKey == "" {
		return store, nil
	}
	enc, err := NewTokenEncryptor(encryptionKey)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return NewEncryptedStore(store, enc), nil
}

// MemoryStore keeps credentials for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string)}
}

func (m *MemoryStore) Get(_ context.Context, key Key) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range AllKeys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
