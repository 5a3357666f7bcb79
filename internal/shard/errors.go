// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package shard

import "errors"

var (
	// ErrCyclicHierarchy is returned when a record is its own ancestor.
	ErrCyclicHierarchy = errors.New("cyclic hierarchy")
	// ErrCyclicReference is returned when a map or slice contains itself.
	ErrCyclicReference = errors.New("cyclic reference")
)
