// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller resolves attribute paths such as "user.tags[0]" against a
// JSON document, drilling through single-element arrays along the way.
package driller
