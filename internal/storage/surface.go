// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import "sync"

// Surface is a persistent text key-value area. Implementations decide where
// the text lives; Store decides what it means.
type Surface interface {
	// GetItem returns the text stored under key and whether it exists.
	GetItem(key string) (string, bool, error)
	// SetItem stores text under key, replacing any prior value.
	SetItem(key, text string) error
	// RemoveItem deletes key. Deleting a missing key is not an error.
	RemoveItem(key string) error
	// Clear deletes every key in the surface.
	Clear() error
}

// MemorySurface keeps items in a map. The zero value is ready to use.
type MemorySurface struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemorySurface returns an empty in-memory surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{items: make(map[string]string)}
}

func (m *MemorySurface) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.items[key]
	return text, ok, nil
}

func (m *MemorySurface) SetItem(key, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]string)
	}
	m.items[key] = text
	return nil
}

func (m *MemorySurface) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemorySurface) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.items)
	return nil
}

// Len returns the number of stored items.
func (m *MemorySurface) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
