// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package is classifies loosely typed values (the shapes produced by decoding
// JSON or YAML into interface{}) and validates common string formats.
package is
