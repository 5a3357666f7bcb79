// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// Variable returns the first value of name in rawURL. When the URL has a
// fragment the parameters are read from it (hash routing, "#/page?a=1" or
// "#a=1") and the search part is ignored. A parameter present without "=" yields "".
func Variable(rawURL, name string) (string, bool) {
	raw, err := rawQuery(rawURL)
	if err != nil {
		return "", false
	}
	for _, p := range splitPairs(raw) {
		if p[0] == name {
			return p[1], true
		}
	}
	return "", false
}

// Object returns every parameter of rawURL, read with the same rules as
// Variable. Repeated keys keep the last value.
func Object(rawURL string) (map[string]string, error) {
	raw, err := rawQuery(rawURL)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, p := range splitPairs(raw) {
		out[p[0]] = p[1]
	}
	return out, nil
}

// Normalize applies the purell normalizations that never change what the
// URL points at, and sorts the query. greedy adds the usually-safe set plus
// dropping the fragment, duplicate slashes and a leading www.
func Normalize(rawURL string, greedy bool) (string, error) {
	flags := purell.FlagsSafe | purell.FlagSortQuery
	if greedy {
		flags = purell.FlagsUsuallySafeGreedy | purell.FlagRemoveFragment |
			purell.FlagRemoveDuplicateSlashes | purell.FlagRemoveWWW | purell.FlagSortQuery
	}
	clean, err := purell.NormalizeURLString(rawURL, flags)
	if err != nil {
		return "", fmt.Errorf("failed to normalize %q: %w", rawURL, err)
	}
	return clean, nil
}

func rawQuery(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Fragment == "" {
		return u.RawQuery, nil
	}
	frag := u.EscapedFragment()
	if _, after, ok := strings.Cut(frag, "?"); ok {
		return after, nil
	}
	if strings.Contains(frag, "=") {
		return frag, nil
	}
	return "", nil
}

// splitPairs splits a raw query into decoded key/value pairs. Undecodable text is
// kept as written.
func splitPairs(raw string) [][2]string {
	var out [][2]string
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, [2]string{decode(k), decode(v)})
	}
	return out
}

func decode(s string) string {
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	return s
}
