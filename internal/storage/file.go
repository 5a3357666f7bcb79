// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// FileSurface stores one file per key beneath a directory. Filenames are the
// MD5 of the clear-text key so any key is a safe filename.
type FileSurface struct {
	dir string
}

// NewFileSurface returns a surface rooted at dir. The directory is created on
// first write.
func NewFileSurface(dir string) *FileSurface {
	return &FileSurface{dir: dir}
}

// Dir returns the directory backing the surface.
func (f *FileSurface) Dir() string {
	return f.dir
}

// EntryPath returns the absolute path where the entry for key would live. It
// also returns true if a file currently exists at that path.
func (f *FileSurface) EntryPath(key string) (string, bool) {
	p := filepath.Join(f.dir, encodeKey(key))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

func (f *FileSurface) GetItem(key string) (string, bool, error) {
	p, ok := f.EntryPath(key)
	if !ok {
		return "", false, nil
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read from store: %w", err)
	}
	return string(bytes.TrimSpace(b)), true, nil
}

func (f *FileSurface) SetItem(key, text string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	p := filepath.Join(f.dir, encodeKey(key))
	if err := os.WriteFile(p, []byte(text), os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to store: %w", err)
	}
	return nil
}

func (f *FileSurface) RemoveItem(key string) error {
	p := filepath.Join(f.dir, encodeKey(key))
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove from store: %w", err)
	}
	return nil
}

// Clear removes every file in the directory, whoever wrote it.
func (f *FileSurface) Clear() error {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list store: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}
	return nil
}

// Purge removes files older than the provided number of hours, regardless of
// the expiry recorded inside them. If hours <= 0 it is a no-op.
func (f *FileSurface) Purge(hours int) error {
	if hours <= 0 {
		log.Debug("store cleaning disabled")
		return nil
	}
	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(f.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed store file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove store file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge store: %w", err)
	}
	return nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
