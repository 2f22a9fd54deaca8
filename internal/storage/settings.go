package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
)

const lastEmailKey = "patientscribe_last_email"

// Settings is a disk-backed store for the few durable user preferences.
type Settings struct {
	db *badger.DB
}

// OpenSettings opens (creating if needed) the settings database under dir.
func OpenSettings(dir string) (*Settings, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(dir, "settings"))
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	return &Settings{db: db}, nil
}

// LastEmail returns the last-used recipient email, or "" when none was saved.
func (s *Settings) LastEmail(_ context.Context) (string, error) {
	var email string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastEmailKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			email = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last email: %w", err)
	}
	return email, nil
}

// SaveLastEmail persists the recipient email for the next session.
func (s *Settings) SaveLastEmail(_ context.Context, email string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(lastEmailKey), []byte(email))
	})
	if err != nil {
		return fmt.Errorf("failed to save last email: %w", err)
	}
	return nil
}

func (s *Settings) Close() error {
	return s.db.Close()
}
