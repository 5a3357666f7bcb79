// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package is

import (
	"reflect"
	"regexp"
	"time"
)

// Kind is the coarse shape of a loosely typed value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindOther
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
	KindOther:  "other",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindOf classifies v. Only string-keyed maps are objects; slices and arrays
// (except []byte) are arrays. time.Time, *regexp.Regexp, funcs, structs and
// pointers are all KindOther.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	case []byte:
		return KindOther
	}

	if _, ok := ToFloat64(v); ok {
		return KindNumber
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
	}

	return KindOther
}

func IsNull(v any) bool   { return KindOf(v) == KindNull }
func IsBool(v any) bool   { return KindOf(v) == KindBool }
func IsNumber(v any) bool { return KindOf(v) == KindNumber }
func IsString(v any) bool { return KindOf(v) == KindString }
func IsArray(v any) bool  { return KindOf(v) == KindArray }

// IsObject reports whether v is a plain mapping, the only kind of value that
// DeepMerge recurses into.
func IsObject(v any) bool { return KindOf(v) == KindObject }

func IsFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

func IsTime(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func IsRegexp(v any) bool {
	_, ok := v.(*regexp.Regexp)
	return ok
}

// IsEmpty is true for nil, empty slices/arrays and maps with no keys. Every
// other value, including "" and 0, is not empty.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func IsNotEmpty(v any) bool { return !IsEmpty(v) }

// IsVoid is true for nil and the empty string.
func IsVoid(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ToFloat64 attempts to normalize various numeric types to float64.
// Returns (0, false) if v is not a recognized numeric type.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
