// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	gq "github.com/google/go-querystring/query"

	"github.com/staranto/beltgo/internal/is"
)

// ToQuery appends params to base as a query string. Keys are emitted in
// sorted order and both keys and values are component encoded, so a space
// becomes %20. With no params base is returned unchanged.
func ToQuery(base string, params map[string]any) string {
	keys := slices.Sorted(maps.Keys(params))

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, EncodeComponent(k)+"="+EncodeComponent(stringify(params[k])))
	}
	return join(base, pairs)
}

// StructToQuery appends the url-tagged fields of v to base. See
// github.com/google/go-querystring for the tag options.
func StructToQuery(base string, v any) (string, error) {
	vals, err := gq.Values(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode query: %w", err)
	}

	keys := slices.Sorted(maps.Keys(vals))

	var pairs []string
	for _, k := range keys {
		for _, val := range vals[k] {
			pairs = append(pairs, EncodeComponent(k)+"="+EncodeComponent(val))
		}
	}
	return join(base, pairs), nil
}

// RemoveEmptyValue returns a copy of m without its nil and "" values.
func RemoveEmptyValue(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if !is.IsVoid(v) {
			out[k] = v
		}
	}
	return out
}

// EncodeComponent escapes s like a URI component: everything except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent encoded.
func EncodeComponent(s string) string {
	return componentFixups.Replace(url.QueryEscape(s))
}

var componentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func join(base string, pairs []string) string {
	if len(pairs) == 0 {
		return base
	}
	q := strings.Join(pairs, "&")

	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		return base + q
	case strings.Contains(base, "?"):
		return base + "&" + q
	}
	return strings.TrimSuffix(base, "/") + "?" + q
}

// stringify renders a loosely typed value as query text.
func stringify(v any) string {
	if v == nil {
		return "null"
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	}
	if n, ok := is.ToFloat64(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	switch is.KindOf(v) {
	case is.KindArray:
		rv := reflect.ValueOf(v)
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case is.KindObject:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}
