// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"math"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/beltgo/internal/is"
)

// DefaultTTLSeconds is used whenever a TTL is not given or not usable.
const DefaultTTLSeconds = 60 * 60 * 24 * 7

type ttlKind int

const (
	ttlDefault ttlKind = iota
	ttlNever
	ttlSeconds
)

// TTL says how long a stored entry lives. The zero value is the store's
// default TTL.
type TTL struct {
	kind    ttlKind
	seconds float64
}

// DefaultTTL defers to the store's default.
func DefaultTTL() TTL { return TTL{} }

// NoExpiry stores an entry that never expires.
func NoExpiry() TTL { return TTL{kind: ttlNever} }

// Seconds expires an entry n seconds after it is written. NaN and infinities
// fall back to the default.
func Seconds(n float64) TTL {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return DefaultTTL()
	}
	return TTL{kind: ttlSeconds, seconds: n}
}

// ParseTTL interprets a loosely typed TTL. nil means no expiry and numbers
// are seconds. Anything else falls back to the default rather than to zero.
//
// Strings are read the way --ttl is typed on the command line, which is wider
// than a plain number check: numeric strings such as "30" are seconds, and
// "null", "never" and "none" mean no expiry. "" and "default" use the
// default.
func ParseTTL(v any) TTL {
	if v == nil {
		return NoExpiry()
	}
	if n, ok := is.ToFloat64(v); ok {
		return Seconds(n)
	}

	s, ok := v.(string)
	if !ok {
		log.Debugf("ttl %v (%T) is not numeric, using default", v, v)
		return DefaultTTL()
	}

	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "never", "none":
		return NoExpiry()
	case "", "default":
		return DefaultTTL()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Seconds(n)
	}

	log.Debugf("ttl %q is not numeric, using default", s)
	return DefaultTTL()
}

func (t TTL) String() string {
	switch t.kind {
	case ttlNever:
		return "never"
	case ttlSeconds:
		return strconv.FormatFloat(t.seconds, 'f', -1, 64) + "s"
	}
	return "default"
}
