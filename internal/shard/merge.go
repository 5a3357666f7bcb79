// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package shard

import (
	"html"
	"reflect"

	"github.com/staranto/beltgo/internal/is"
)

// Flatten recursively splices nested slices and arrays of any element type
// into a single slice. []byte is treated as a scalar. A slice that contains
// itself yields ErrCyclicReference.
func Flatten(seq []any) ([]any, error) {
	return flattenInto(make([]any, 0, len(seq)), reflect.ValueOf(seq), make(refs))
}

func flattenInto(out []any, rv reflect.Value, seen refs) ([]any, error) {
	var key ref
	if rv.Kind() == reflect.Slice {
		key = refOf(rv)
		if err := seen.enter(key); err != nil {
			return nil, err
		}
		defer seen.leave(key)
	}

	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if is.KindOf(el) != is.KindArray {
			out = append(out, el)
			continue
		}
		var err error
		if out, err = flattenInto(out, reflect.ValueOf(el), seen); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeepMerge merges objs left to right into a new map. Where two arguments
// share a key and both values are plain mappings they are merged
// recursively, otherwise the later value replaces the earlier one (slices are
// replaced, not concatenated). Nested mappings in the result are always new
// maps, even for a single argument; other values are shared with the inputs.
// Nil arguments are skipped and no argument is modified.
func DeepMerge(objs ...map[string]any) (map[string]any, error) {
	return deepMerge(make(refs), objs...)
}

func deepMerge(seen refs, objs ...map[string]any) (map[string]any, error) {
	result := make(map[string]any)

	for _, obj := range objs {
		if obj == nil {
			continue
		}

		key := refOf(reflect.ValueOf(obj))
		if err := seen.enter(key); err != nil {
			return nil, err
		}

		for k, v := range obj {
			src, ok := asObject(v)
			if !ok {
				result[k] = v
				continue
			}

			var (
				merged map[string]any
				err    error
			)
			if dst, ok := result[k].(map[string]any); ok {
				merged, err = deepMerge(seen, dst, src)
			} else {
				merged, err = deepMerge(seen, src)
			}
			if err != nil {
				return nil, err
			}
			result[k] = merged
		}

		seen.leave(key)
	}

	return result, nil
}

// asObject returns v as a generic map when it is a plain mapping. Typed
// string-keyed maps are converted.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, m != nil
	}
	if !is.IsObject(v) {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// DeepClone returns a copy of v that shares no map or slice with it. Maps,
// slices and arrays are copied recursively and keep their concrete Go type.
// Everything else (scalars, structs, pointers, funcs, time.Time) is returned
// as is. A map or slice that contains itself yields ErrCyclicReference.
func DeepClone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := cloneValue(reflect.ValueOf(v), make(refs))
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// Clone is DeepClone for a statically known type.
func Clone[T any](v T) (T, error) {
	var zero T
	out, err := DeepClone(v)
	if err != nil || out == nil {
		return zero, err
	}
	return out.(T), nil
}

func cloneValue(rv reflect.Value, seen refs) (reflect.Value, error) {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv, nil
		}
		inner, err := cloneValue(rv.Elem(), seen)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(inner)
		return out, nil

	case reflect.Map:
		if rv.IsNil() {
			return rv, nil
		}
		key := refOf(rv)
		if err := seen.enter(key); err != nil {
			return reflect.Value{}, err
		}
		defer seen.leave(key)

		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			val, err := cloneValue(iter.Value(), seen)
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key(), val)
		}
		return out, nil

	case reflect.Slice:
		if rv.IsNil() {
			return rv, nil
		}
		key := refOf(rv)
		if err := seen.enter(key); err != nil {
			return reflect.Value{}, err
		}
		defer seen.leave(key)

		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			val, err := cloneValue(rv.Index(i), seen)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(val)
		}
		return out, nil

	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			val, err := cloneValue(rv.Index(i), seen)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(val)
		}
		return out, nil
	}

	return rv, nil
}

// ref identifies a map or slice header currently being walked.
type ref struct {
	ptr uintptr
	len int
	typ reflect.Type
}

func refOf(rv reflect.Value) ref {
	r := ref{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		r.len = rv.Len()
	}
	return r
}

// refs is the set of containers on the current recursion path.
type refs map[ref]struct{}

func (s refs) enter(r ref) error {
	// Zero-length slices may share a pointer without sharing elements.
	if r.ptr == 0 || (r.typ.Kind() == reflect.Slice && r.len == 0) {
		return nil
	}
	if _, ok := s[r]; ok {
		return ErrCyclicReference
	}
	s[r] = struct{}{}
	return nil
}

func (s refs) leave(r ref) {
	delete(s, r)
}

// EscapeHTML escapes &, <, >, " and ' so s can be embedded in HTML text or
// attribute values.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
