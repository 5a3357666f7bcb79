// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// SubText truncates s to n user-perceived characters (grapheme clusters) and
// appends Ellipsis. Text that already fits is returned unchanged.
func SubText(s string, n int) string {
	n = max(n, 0)
	if uniseg.GraphemeClusterCount(s) <= n {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	b.WriteString(Ellipsis)
	return b.String()
}
