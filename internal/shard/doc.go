// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package shard holds the structural transforms over loosely typed data:
// flat list to tree and back, nested slice flattening, deep merge and deep
// clone. Records are map[string]any, the shape produced by decoding JSON.
//
// The tree transforms build new node maps by default. InPlace restores the
// older behaviour of attaching and removing the children field on the
// caller's own maps.
package shard
