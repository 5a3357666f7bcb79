// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package query builds URL query strings from maps and structs, reads
// parameters back out of URLs (including hash-routed URLs that carry their
// query inside the fragment) and normalizes URLs.
package query
