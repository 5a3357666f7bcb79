// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultDateLayout is used when FormatDate is given an empty layout.
const DefaultDateLayout = "yyyy-MM-dd hh:mm:ss"

var yearToken = regexp.MustCompile(`y+`)

// dateTokens are substituted in this order. Only the first run of each token
// letter is replaced.
var dateTokens = []struct {
	re    *regexp.Regexp
	value func(time.Time) int
}{
	{regexp.MustCompile(`M+`), func(t time.Time) int { return int(t.Month()) }},
	{regexp.MustCompile(`d+`), func(t time.Time) int { return t.Day() }},
	{regexp.MustCompile(`h+`), func(t time.Time) int { return t.Hour() }},
	{regexp.MustCompile(`m+`), func(t time.Time) int { return t.Minute() }},
	{regexp.MustCompile(`s+`), func(t time.Time) int { return t.Second() }},
}

// FormatDate renders t with a token layout such as "yyyy-MM-dd hh:mm:ss".
//
//	y+  year, keeping the last len(token) digits ("yy" -> "24")
//	M+  month      d+  day
//	h+  hour (24h) m+  minute   s+  second
//
// A single-letter token is unpadded; longer tokens are zero padded to two
// digits. Any other text is copied through.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}

	out := layout
	if loc := yearToken.FindStringIndex(out); loc != nil {
		year := strconv.Itoa(t.Year())
		if n := loc[1] - loc[0]; n < len(year) {
			year = year[len(year)-n:]
		}
		out = out[:loc[0]] + year + out[loc[1]:]
	}

	for _, tok := range dateTokens {
		loc := tok.re.FindStringIndex(out)
		if loc == nil {
			continue
		}
		v := tok.value(t)
		s := strconv.Itoa(v)
		if loc[1]-loc[0] > 1 {
			s = fmt.Sprintf("%02d", v)
		}
		out = out[:loc[0]] + s + out[loc[1]:]
	}

	return out
}

// ParseDate parses s in any of the common date formats, including Unix
// timestamps. Strings without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}
