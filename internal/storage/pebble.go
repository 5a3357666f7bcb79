// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// PebbleSurface keeps items in a Pebble database directory. It must be closed.
type PebbleSurface struct {
	db *pebble.DB
}

// OpenPebbleSurface opens (creating if needed) the database at dir.
func OpenPebbleSurface(dir string) (*PebbleSurface, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database: %w", err)
	}
	return &PebbleSurface{db: db}, nil
}

func (p *PebbleSurface) GetItem(key string) (string, bool, error) {
	value, closer, err := p.db.Get([]byte(key))
	if closer != nil {
		defer closer.Close()
	}
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	// value is only valid until closer is closed.
	return string(value), true, nil
}

func (p *PebbleSurface) SetItem(key, text string) error {
	if err := p.db.Set([]byte(key), []byte(text), pebble.Sync); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (p *PebbleSurface) RemoveItem(key string) error {
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Clear deletes every key in the database in one batch.
func (p *PebbleSurface) Clear() error {
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("failed to iterate store: %w", err)
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		if err := batch.Delete(key, nil); err != nil {
			_ = iter.Close()
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("failed to iterate store: %w", err)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

func (p *PebbleSurface) Close() error {
	return p.db.Close()
}
