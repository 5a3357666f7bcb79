// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToQuery(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		params map[string]any
		want   string
	}{
		{"sorted keys", "http://a.com", map[string]any{"b": 2, "a": 1}, "http://a.com?a=1&b=2"},
		{"trailing slash replaced", "http://a.com/", map[string]any{"a": 1}, "http://a.com?a=1"},
		{"trailing question mark", "http://a.com/p?", map[string]any{"a": 1}, "http://a.com/p?a=1"},
		{"existing query", "http://a.com/p?z=9", map[string]any{"a": 1}, "http://a.com/p?z=9&a=1"},
		{"space is %20", "", map[string]any{"q": "x y"}, "?q=x%20y"},
		{"reserved escaped", "", map[string]any{"q": "a&b=c"}, "?q=a%26b%3Dc"},
		{"unreserved kept", "", map[string]any{"q": "!*'()~-_."}, "?q=!*'()~-_."},
		{"unicode", "", map[string]any{"q": "中"}, "?q=%E4%B8%AD"},
		{"nil", "", map[string]any{"q": nil}, "?q=null"},
		{"bool and float", "", map[string]any{"b": true, "f": 1.5}, "?b=true&f=1.5"},
		{"slice joins", "", map[string]any{"l": []any{1, "a"}}, "?l=1%2Ca"},
		{"no params", "http://a.com/", map[string]any{}, "http://a.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToQuery(tt.base, tt.params))
		})
	}
}

func TestStructToQuery(t *testing.T) {
	type search struct {
		Q    string   `url:"q"`
		Page int      `url:"page,omitempty"`
		Tags []string `url:"tag"`
	}

	got, err := StructToQuery("http://a.com/s", search{Q: "a b", Tags: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, "http://a.com/s?q=a%20b&tag=x&tag=y", got)

	_, err = StructToQuery("http://a.com", 42)
	assert.Error(t, err)
}

func TestRemoveEmptyValue(t *testing.T) {
	in := map[string]any{"a": 1, "b": nil, "c": "", "d": 0, "e": false, "f": []any{}}
	got := RemoveEmptyValue(in)

	assert.Equal(t, map[string]any{"a": 1, "d": 0, "e": false, "f": []any{}}, got)
	assert.Len(t, in, 6, "input is not modified")
}

func TestVariable(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		key    string
		want   string
		wantOK bool
	}{
		{"search", "http://a.com/p?a=1&b=x%20y", "b", "x y", true},
		{"plus is space", "http://a.com/p?b=x+y", "b", "x y", true},
		{"missing", "http://a.com/p?a=1", "z", "", false},
		{"no equals", "http://a.com/p?flag", "flag", "", true},
		{"exact key", "http://a.com/p?xa=1", "a", "", false},
		{"fragment wins", "http://a.com/?a=1#/page?a=2&c=3", "a", "2", true},
		{"fragment only", "http://a.com/?a=1#/page?c=3", "a", "", false},
		{"bare fragment", "http://a.com/#a=5", "a", "5", true},
		{"fragment path", "http://a.com/?a=1#/page", "a", "", false},
		{"bad url", "http://a b.com/%zz", "a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Variable(tt.url, tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObject(t *testing.T) {
	got, err := Object("http://a.com/?a=1&b=2&a=3")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, got)

	got, err = Object("http://a.com/#/list?page=2&q=%E4%B8%AD")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"page": "2", "q": "中"}, got)

	got, err = Object("http://a.com/#/list")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Object("http://a.com/")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("HTTP://www.Example.com:80/a?b=2&a=1", false)
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com/a?a=1&b=2", got)

	got, err = Normalize("http://www.example.com//a/?b=2#frag", true)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a?b=2", got)
}
