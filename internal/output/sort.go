// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"sort"
	"strings"

	"github.com/staranto/beltgo/internal/is"
)

type sortKey struct {
	name          string
	descending    bool
	caseSensitive bool
}

// parseSortSpec splits a --sort spec. Each key may be prefixed with '-' for
// descending order and '!' for a case-sensitive comparison, in any order.
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		k := sortKey{}
		for len(field) > 0 && (field[0] == '-' || field[0] == '!') {
			if field[0] == '-' {
				k.descending = true
			} else {
				k.caseSensitive = true
			}
			field = field[1:]
		}
		if field == "" {
			continue
		}
		k.name = field
		keys = append(keys, k)
	}
	return keys
}

// SortDataset sorts rows in place by the keys in spec. The sort is stable, so
// an empty spec leaves the input order alone. Numbers compare numerically,
// strings case-insensitively unless marked with '!', and missing values sort
// first.
func SortDataset(dataset []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(dataset, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(dataset[i][k.name], dataset[j][k.name], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := is.ToFloat64(a); ok {
		if y, ok := is.ToFloat64(b); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}

	x, y := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		x, y = strings.ToLower(x), strings.ToLower(y)
	}
	return strings.Compare(x, y)
}
