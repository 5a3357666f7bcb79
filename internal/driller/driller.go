// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var indexSuffix = regexp.MustCompile(`\[(\d+)\]`)

// Driller returns the value at path in json. Segments are separated by dots
// and may carry one or more [n] indexes. Keys are matched exactly, so gjson
// wildcard and modifier characters have no special meaning. An array with a
// single element is drilled through transparently. A path that does not
// resolve returns an empty (non-existent) result.
func Driller(json, path string) gjson.Result {
	current := gjson.Parse(json)
	if path == "" {
		return current
	}

	for _, segment := range strings.Split(path, ".") {
		key := segment
		var indexes []int
		if loc := indexSuffix.FindStringIndex(segment); loc != nil {
			key = segment[:loc[0]]
			for _, m := range indexSuffix.FindAllStringSubmatch(segment[loc[0]:], -1) {
				n, _ := strconv.Atoi(m[1])
				indexes = append(indexes, n)
			}
		}

		if key != "" {
			current = child(unwrap(current), key)
			if !current.Exists() {
				return gjson.Result{}
			}
		}

		for _, n := range indexes {
			if !current.IsArray() {
				return gjson.Result{}
			}
			elems := current.Array()
			if n >= len(elems) {
				return gjson.Result{}
			}
			current = elems[n]
		}
	}

	return unwrap(current)
}

// unwrap returns the only element of a single-element array.
func unwrap(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if elems := r.Array(); len(elems) == 1 {
			return elems[0]
		}
	}
	return r
}

func child(r gjson.Result, key string) gjson.Result {
	if !r.IsObject() {
		return gjson.Result{}
	}
	var found gjson.Result
	r.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
			return false
		}
		return true
	})
	return found
}
