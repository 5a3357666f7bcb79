// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// envelope is the persisted form of an entry. Expire is Unix milliseconds;
// nil means the entry never expires.
type envelope struct {
	Value  any    `json:"value"`
	Expire *int64 `json:"expire"`
}

// Store wraps a Surface with expiring entries. It adds no locking of its own.
type Store struct {
	surface    Surface
	now        func() time.Time
	defaultTTL time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaultTTL changes the TTL used for DefaultTTL(). Non-positive values
// are ignored.
func WithDefaultTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.defaultTTL = d
		}
	}
}

// New returns a Store over surface.
func New(surface Surface, opts ...Option) *Store {
	s := &Store{
		surface:    surface,
		now:        time.Now,
		defaultTTL: DefaultTTLSeconds * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Surface returns the underlying surface.
func (s *Store) Surface() Surface {
	return s.surface
}

// Set stores value under key, overwriting any prior entry. value must be JSON
// encodable.
func (s *Store) Set(key string, value any, ttl TTL) error {
	env := envelope{Value: value}

	switch ttl.kind {
	case ttlSeconds:
		exp := expireAt(s.now().UnixMilli(), ttl.seconds)
		env.Expire = &exp
	case ttlDefault:
		exp := s.now().Add(s.defaultTTL).UnixMilli()
		env.Expire = &exp
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.surface.SetItem(key, string(raw)); err != nil {
		return fmt.Errorf("failed to store %q: %w", key, err)
	}

	log.Debugf("stored %q ttl=%s", key, ttl)
	return nil
}

// Get returns the value stored under key. A missing, expired or unreadable
// entry reports false with no error; expired and unreadable entries are
// removed from the surface. Values come back in their decoded JSON shapes
// (float64, string, bool, nil, []any, map[string]any).
func (s *Store) Get(key string) (any, bool, error) {
	raw, ok, err := s.lookup(key)
	if err != nil || !ok {
		return nil, false, err
	}
	return gjson.Parse(raw).Value(), true, nil
}

// GetInto decodes the value stored under key into dst, following the same
// rules as Get.
func (s *Store) GetInto(key string, dst any) (bool, error) {
	raw, ok, err := s.lookup(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Expiry returns the expiry of key, or the zero time if it never expires.
// Missing, expired and unreadable entries follow the rules of Get.
func (s *Store) Expiry(key string) (time.Time, bool, error) {
	env, ok, err := s.entry(key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	exp := env.Get("expire")
	if exp.Type != gjson.Number {
		return time.Time{}, true, nil
	}
	return time.UnixMilli(exp.Int()), true, nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if err := s.surface.RemoveItem(key); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// Clear empties the whole surface, including keys this Store never wrote.
func (s *Store) Clear() error {
	if err := s.surface.Clear(); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// lookup returns the raw JSON of the live value under key.
func (s *Store) lookup(key string) (string, bool, error) {
	env, ok, err := s.entry(key)
	if err != nil || !ok {
		return "", false, err
	}
	raw := env.Get("value").Raw
	if raw == "" {
		raw = "null"
	}
	return raw, true, nil
}

// entry returns the envelope under key if it is well formed and live.
// Malformed and expired entries are evicted and reported as absent.
func (s *Store) entry(key string) (gjson.Result, bool, error) {
	text, ok, err := s.surface.GetItem(key)
	if err != nil {
		return gjson.Result{}, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !ok || text == "" {
		return gjson.Result{}, false, nil
	}

	env := gjson.Parse(text)
	exp := env.Get("expire")
	if !gjson.Valid(text) || !env.IsObject() ||
		(exp.Exists() && exp.Type != gjson.Null && exp.Type != gjson.Number) {
		log.Warnf("discarding malformed entry %q", key)
		return gjson.Result{}, false, s.evict(key)
	}

	if exp.Type == gjson.Number && exp.Int() < s.now().UnixMilli() {
		log.Debugf("entry %q expired at %d", key, exp.Int())
		return gjson.Result{}, false, s.evict(key)
	}
	return env, true, nil
}

// expireAt returns now plus seconds in Unix milliseconds, saturating at the
// int64 range instead of wrapping.
func expireAt(nowMilli int64, seconds float64) int64 {
	exp := float64(nowMilli) + seconds*1000
	switch {
	case exp >= math.MaxInt64:
		return math.MaxInt64
	case exp <= math.MinInt64:
		return math.MinInt64
	}
	return int64(exp)
}

func (s *Store) evict(key string) error {
	if err := s.surface.RemoveItem(key); err != nil {
		return fmt.Errorf("failed to evict %q: %w", key, err)
	}
	return nil
}
