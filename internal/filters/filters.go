// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/beltgo/internal/attrs"
	"github.com/staranto/beltgo/internal/driller"
	"github.com/staranto/beltgo/internal/is"
)

// exprRegex splits a filter expression into key, operator and target. The
// key is matched lazily, so the first operator character ends it.
var exprRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/?])(.*)$`)

// Op is a filter operator.
type Op byte

const (
	OpEqual    Op = '='
	OpFold     Op = '~' // case-insensitive equality
	OpPrefix   Op = '^'
	OpLess     Op = '<'
	OpGreater  Op = '>'
	OpContains Op = '@' // substring, array member or object key
	OpRegex    Op = '/'
	OpExists   Op = '?' // key present and not null
)

// Filter is one parsed --filter expression, e.g. "name^web" or "size!>10".
type Filter struct {
	Key    string
	Negate bool
	Op     Op
	Target string

	re *regexp.Regexp
}

func (f Filter) String() string {
	neg := ""
	if f.Negate {
		neg = "!"
	}
	return f.Key + neg + string(f.Op) + f.Target
}

// Set is every filter of a --filter spec. A record must pass all of them.
type Set []Filter

// Parse parses a comma separated filter spec. BELT_FILTER_DELIM overrides the
// delimiter for targets that contain commas. An empty spec is an empty Set.
func Parse(spec string) (Set, error) {
	if spec == "" {
		return nil, nil
	}

	delim := ","
	if d, ok := os.LookupEnv("BELT_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	var set Set
	for _, expr := range strings.Split(spec, delim) {
		f, err := parseExpr(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, f)
	}
	return set, nil
}

func parseExpr(expr string) (Filter, error) {
	parts := exprRegex.FindStringSubmatch(expr)
	if parts == nil || parts[1] == "" {
		return Filter{}, fmt.Errorf("invalid filter %q: want <key><op><target>", expr)
	}

	op := parts[2]
	f := Filter{
		Key:    parts[1],
		Negate: strings.HasPrefix(op, "!"),
		Op:     Op(op[len(op)-1]),
		Target: parts[3],
	}

	switch f.Op {
	case OpExists:
		if f.Target != "" {
			return Filter{}, fmt.Errorf("invalid filter %q: %c takes no target", expr, OpExists)
		}
	case OpRegex:
		re, err := regexp.Compile(f.Target)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid filter %q: %w", expr, err)
		}
		f.re = re
	}
	return f, nil
}

// Match reports whether candidate passes every filter. A filter key that
// names an attr (by OutputKey) reads that attr's path; any other key is a
// path into the record itself.
func (s Set) Match(candidate gjson.Result, al attrs.AttrList) bool {
	for _, f := range s {
		key := f.Key
		for _, attr := range al {
			if attr.OutputKey == f.Key {
				key = attr.Key
				break
			}
		}

		value := driller.Driller(candidate.Raw, key).Value()
		if !f.match(value) {
			log.Debugf("filter %s rejected %s", f, candidate.Raw)
			return false
		}
	}
	return true
}

// Apply returns the records of candidates (a JSON array) that pass the set,
// each reduced to the values of al keyed by OutputKey. Transforms are left to
// the caller.
func (s Set) Apply(candidates gjson.Result, al attrs.AttrList) []map[string]interface{} {
	rows := []map[string]interface{}{}
	for _, candidate := range candidates.Array() {
		if !s.Match(candidate, al) {
			continue
		}
		row := make(map[string]interface{}, len(al))
		for _, attr := range al {
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		rows = append(rows, row)
	}
	return rows
}

// FilterDataset parses spec and applies it to candidates.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) ([]map[string]interface{}, error) {
	set, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	return set.Apply(candidates, al), nil
}

// match evaluates f against a decoded JSON value. A missing or null value
// only ever satisfies "!?".
func (f Filter) match(value any) bool {
	if f.Op == OpExists {
		return (value != nil) != f.Negate
	}

	var ok bool
	switch is.KindOf(value) {
	case is.KindNull:
		return false
	case is.KindString:
		ok = f.compareString(value.(string))
	case is.KindBool:
		ok = f.compareString(strconv.FormatBool(value.(bool)))
	case is.KindNumber:
		n, _ := is.ToFloat64(value)
		ok = f.compareNumber(n)
	case is.KindArray:
		if f.Op != OpContains {
			return false
		}
		items, _ := value.([]any)
		ok = f.hasMember(items)
	case is.KindObject:
		if f.Op != OpContains {
			return false
		}
		obj, _ := value.(map[string]any)
		_, ok = obj[f.Target]
	default:
		return false
	}
	return ok != f.Negate
}

func (f Filter) compareString(v string) bool {
	switch f.Op {
	case OpEqual:
		return v == f.Target
	case OpFold:
		return strings.EqualFold(v, f.Target)
	case OpPrefix:
		return strings.HasPrefix(v, f.Target)
	case OpLess:
		return v < f.Target
	case OpGreater:
		return v > f.Target
	case OpContains:
		return strings.Contains(v, f.Target)
	case OpRegex:
		re := f.re
		if re == nil {
			var err error
			if re, err = regexp.Compile(f.Target); err != nil {
				return false
			}
		}
		return re.MatchString(v)
	}
	return false
}

// compareNumber compares numerically when the target is a number and falls
// back to the number's text form otherwise, so "size^1" and "size/^1\d$"
// work.
func (f Filter) compareNumber(v float64) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err == nil {
		switch f.Op {
		case OpEqual, OpFold:
			return v == tgt
		case OpLess:
			return v < tgt
		case OpGreater:
			return v > tgt
		}
	}
	return f.compareString(strconv.FormatFloat(v, 'f', -1, 64))
}

func (f Filter) hasMember(items []any) bool {
	for _, item := range items {
		if is.KindOf(item) == is.KindObject || is.KindOf(item) == is.KindArray {
			continue
		}
		if fmt.Sprint(item) == f.Target {
			return true
		}
	}
	return false
}
