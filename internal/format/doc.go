// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package format renders dates, money amounts and truncated text for display.
package format
