// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package credentials

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Encryption errors.
var (
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// MinKeyLength is the shortest passphrase accepted by NewTokenEncryptor.
const MinKeyLength = 32

const keyDerivationContext = "facetrack-credentials"

// TokenEncryptor encrypts stored credentials with AES-GCM. The AES key is
// derived from the configured passphrase with HKDF-SHA256.
type TokenEncryptor struct {
	aead cipher.AEAD
}

// NewTokenEncryptor derives an encryption key from passphrase.
func NewTokenEncryptor(passphrase string) (*TokenEncryptor, error) {
	if len(passphrase) < MinKeyLength {
		return nil, fmt.Errorf("encryption key must be at least %d characters", MinKeyLength)
	}

	key, err := deriveKey([]byte(passphrase), []byte(keyDerivationContext), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}
	return &TokenEncryptor{aead: aead}, nil
}

func deriveKey(secret, info []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, info)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt returns base64(nonce || ciphertext). A nil encryptor returns the
// plaintext unchanged.
func (e *TokenEncryptor) Encrypt(plaintext string) (string, error) {
	if e == nil || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (e *TokenEncryptor) Decrypt(ciphertext string) (string, error) {
	if e == nil || ciphertext == "" {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed", ErrInvalidCiphertext)
	}
	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: too short", ErrInvalidCiphertext)
	}
	plain, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// EncryptedStore encrypts values before handing them to the wrapped store.
type EncryptedStore struct {
	inner Store
	enc   *TokenEncryptor
}

var _ Store = (*EncryptedStore)(nil)

// NewEncryptedStore wraps inner.
func NewEncryptedStore(inner Store, enc *TokenEncryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc}
}

// Get decrypts the stored value. A value that cannot be decrypted (for
// example after the key changed) is reported as ErrDecryptionFailed.
func (s *EncryptedStore) Get(ctx context.Context, key Key) (string, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.enc.Decrypt(raw)
}

func (s *EncryptedStore) Set(ctx context.Context, key Key, value string) error {
	sealed, err := s.enc.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *EncryptedStore) Delete(ctx context.Context, key Key) error {
	return s.inner.Delete(ctx, key)
}

func (s *EncryptedStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}
