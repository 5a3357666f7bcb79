// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package storage provides an expiring key-value store on top of a simple
// text persistence surface. Entries are stored as a JSON envelope holding the
// value and an optional expiry in Unix milliseconds; expired entries are
// evicted lazily when they are read.
//
// Two scopes exist: session (lives as long as the invoking shell) and local
// (durable, in the user cache directory or a Pebble database).
package storage
