// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/apex/log"
)

// Scope names one of the two store instances.
type Scope string

const (
	// ScopeSession lives as long as the shell that invoked belt.
	ScopeSession Scope = "session"
	// ScopeLocal is durable across sessions.
	ScopeLocal Scope = "local"
)

// Engines accepted for the local scope.
const (
	EngineFile   = "file"
	EnginePebble = "pebble"
)

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSession, ScopeLocal:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q: must be %s or %s", s, ScopeSession, ScopeLocal)
}

// Dir resolves the base directory for the local scope.
// Precedence:
//  1. BELT_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/belt
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("BELT_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "belt"), true
	}
	return "", false
}

// SessionDir resolves the directory for the session scope. BELT_SESSION_DIR
// wins; otherwise it is keyed by the parent process so every shell gets its
// own session.
func SessionDir() string {
	if c, ok := os.LookupEnv("BELT_SESSION_DIR"); ok && c != "" {
		return c
	}
	return filepath.Join(os.TempDir(), "belt-session-"+strconv.Itoa(os.Getppid()))
}

// OpenSurface returns the surface for scope. engine only applies to the
// local scope. Surfaces that hold resources implement io.Closer.
func OpenSurface(scope Scope, engine string) (Surface, error) {
	switch scope {
	case ScopeSession:
		dir := SessionDir()
		log.Debugf("session store: %s", dir)
		return NewFileSurface(dir), nil
	case ScopeLocal:
		base, ok := Dir()
		if !ok {
			return nil, fmt.Errorf("failed to resolve a local store directory")
		}
		switch engine {
		case "", EngineFile:
			dir := filepath.Join(base, "store")
			log.Debugf("local store: %s", dir)
			return NewFileSurface(dir), nil
		case EnginePebble:
			dir := filepath.Join(base, "pebble")
			log.Debugf("local pebble store: %s", dir)
			p, err := OpenPebbleSurface(dir)
			if err != nil {
				return nil, err
			}
			return p, nil
		default:
			return nil, fmt.Errorf("unknown store engine %q", engine)
		}
	}
	return nil, fmt.Errorf("unknown scope %q", scope)
}
