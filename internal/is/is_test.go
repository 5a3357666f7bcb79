// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package is

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *int

	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{name: "nil", value: nil, want: KindNull},
		{name: "nil pointer", value: nilPtr, want: KindNull},
		{name: "bool", value: true, want: KindBool},
		{name: "int", value: 42, want: KindNumber},
		{name: "float64", value: 4.2, want: KindNumber},
		{name: "uint8", value: uint8(1), want: KindNumber},
		{name: "string", value: "x", want: KindString},
		{name: "generic map", value: map[string]any{"a": 1}, want: KindObject},
		{name: "typed map", value: map[string]int{"a": 1}, want: KindObject},
		{name: "nil map is still an object", value: nilMap, want: KindObject},
		{name: "int keyed map", value: map[int]string{1: "a"}, want: KindOther},
		{name: "generic slice", value: []any{1}, want: KindArray},
		{name: "typed slice", value: []string{"a"}, want: KindArray},
		{name: "array", value: [2]int{1, 2}, want: KindArray},
		{name: "bytes", value: []byte("x"), want: KindOther},
		{name: "time", value: time.Now(), want: KindOther},
		{name: "regexp", value: regexp.MustCompile("x"), want: KindOther},
		{name: "func", value: func() {}, want: KindOther},
		{name: "struct", value: struct{ A int }{1}, want: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.value))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNumber(3))
	assert.False(t, IsNumber("3"))
	assert.True(t, IsObject(map[string]any{}))
	assert.False(t, IsObject([]any{}))
	assert.False(t, IsObject(time.Now()))
	assert.True(t, IsArray([]int{}))
	assert.True(t, IsFunc(func() {}))
	assert.False(t, IsFunc(nil))
	assert.True(t, IsTime(time.Now()))
	assert.True(t, IsRegexp(regexp.MustCompile(".")))
	assert.True(t, IsNull(nil))
	assert.True(t, IsBool(false))
	assert.True(t, IsString(""))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty([]any{}))
	assert.True(t, IsEmpty(map[string]any{}))
	assert.False(t, IsEmpty([]any{1}))
	assert.False(t, IsEmpty(map[string]any{"a": nil}))
	assert.False(t, IsEmpty(""))
	assert.False(t, IsEmpty(0))
	assert.True(t, IsNotEmpty("x"))
}

func TestIsVoid(t *testing.T) {
	assert.True(t, IsVoid(nil))
	assert.True(t, IsVoid(""))
	assert.False(t, IsVoid(0))
	assert.False(t, IsVoid(" "))
	assert.False(t, IsVoid(false))
}

func TestToFloat64(t *testing.T) {
	f, ok := ToFloat64(int64(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = ToFloat64("7")
	assert.False(t, ok)
}

func TestStringValidators(t *testing.T) {
	tests := []struct {
		name  string
		check string
		value string
		want  bool
	}{
		{name: "chinese", check: "chinese", value: "中文", want: true},
		{name: "mixed is not chinese", check: "chinese", value: "中a", want: false},
		{name: "email", check: "email", value: "a_b@example.com", want: true},
		{name: "email without tld", check: "email", value: "a@example", want: false},
		{name: "url", check: "url", value: "https://example.com/x", want: true},
		{name: "url without scheme", check: "url", value: "example.com", want: false},
		{name: "phone", check: "phone", value: "13812345678", want: true},
		{name: "phone short", check: "phone", value: "1381234567", want: false},
		{name: "idcard 18", check: "idcard", value: "11010519491231002X", want: true},
		{name: "idcard 15", check: "idcard", value: "110105491231002", want: true},
		{name: "idcard bad", check: "idcard", value: "1101", want: false},
		{name: "ip", check: "ip", value: "10.0.0.1", want: true},
		{name: "ip bad", check: "ip", value: "10.0.1", want: false},
		{name: "base64", check: "base64", value: "data:image/png;base64,AAAA", want: true},
		{name: "base64 bad", check: "base64", value: "data:text/plain,AAAA", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := Predicates[tt.check]
			assert.True(t, ok)
			assert.Equal(t, tt.want, fn(tt.value))
		})
	}
}
