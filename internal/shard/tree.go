// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package shard

import (
	"fmt"
	"maps"
	"reflect"
	"strconv"

	"github.com/apex/log"

	"github.com/staranto/beltgo/internal/is"
)

// Record is a flat record or a tree node.
type Record = map[string]any

const (
	DefaultIDField       = "id"
	DefaultParentField   = "pid"
	DefaultChildrenField = "children"
)

// treeOptions holds the field names and mutation mode for the tree
// transforms.
type treeOptions struct {
	id       string
	pid      string
	children string
	inPlace  bool
}

// TreeOption customizes FlatToTree and FlattenTree.
type TreeOption func(*treeOptions)

// WithIDField sets the identity field. Empty keeps the default.
func WithIDField(field string) TreeOption {
	return func(o *treeOptions) {
		if field != "" {
			o.id = field
		}
	}
}

// WithParentField sets the parent identity field. Empty keeps the default.
func WithParentField(field string) TreeOption {
	return func(o *treeOptions) {
		if field != "" {
			o.pid = field
		}
	}
}

// WithChildrenField sets the field that holds child nodes. Empty keeps the
// default.
func WithChildrenField(field string) TreeOption {
	return func(o *treeOptions) {
		if field != "" {
			o.children = field
		}
	}
}

// InPlace makes FlatToTree attach children to the caller's records and
// FlattenTree strip children from the caller's nodes, instead of working on
// shallow copies.
func InPlace() TreeOption {
	return func(o *treeOptions) { o.inPlace = true }
}

func newTreeOptions(opts []TreeOption) treeOptions {
	o := treeOptions{
		id:       DefaultIDField,
		pid:      DefaultParentField,
		children: DefaultChildrenField,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FlatToTree links flat records into a forest using their identity and parent
// identity fields, and returns the roots in input order. A record whose parent
// is absent, nil or not present in records becomes a root. Children keep
// their input order. On duplicate identities the last record wins as a
// parent; every record still appears exactly once in the result. Identities
// are compared by their text, so a pid of "7" links to an id of 7.
//
// Any children field already present on a record is replaced. Nil records are
// dropped. A record that is its own ancestor fails the whole call with
// ErrCyclicHierarchy before anything is built or mutated.
func FlatToTree(records []Record, opts ...TreeOption) ([]Record, error) {
	o := newTreeOptions(opts)

	var kept []Record
	for _, rec := range records {
		if rec == nil {
			log.Debug("dropping nil record")
			continue
		}
		kept = append(kept, rec)
	}

	index := make(map[string]int, len(kept))
	for i, rec := range kept {
		if id, ok := identity(rec[o.id]); ok {
			index[id] = i
		}
	}

	parents := make([]int, len(kept))
	for i, rec := range kept {
		parents[i] = -1
		if pid, ok := identity(rec[o.pid]); ok {
			if p, found := index[pid]; found {
				parents[i] = p
			}
		}
	}

	if i := findCycle(parents); i >= 0 {
		return nil, fmt.Errorf("record %s=%v: %w", o.id, kept[i][o.id], ErrCyclicHierarchy)
	}

	nodes := kept
	if !o.inPlace {
		nodes = make([]Record, len(kept))
		for i, rec := range kept {
			nodes[i] = maps.Clone(rec)
		}
	}
	for _, node := range nodes {
		delete(node, o.children)
	}

	roots := make([]Record, 0)
	for i, node := range nodes {
		p := parents[i]
		if p < 0 {
			roots = append(roots, node)
			continue
		}
		parent := nodes[p]
		siblings, _ := parent[o.children].([]Record)
		parent[o.children] = append(siblings, node)
	}

	log.Debugf("built %d roots from %d records", len(roots), len(kept))
	return roots, nil
}

// FlattenTree walks nodes depth first, pre-order, and returns every node with
// its children field removed. Children may be []Record or the []any of maps
// produced by JSON decoding. A node met again below itself fails with
// ErrCyclicHierarchy.
func FlattenTree(nodes []Record, opts ...TreeOption) ([]Record, error) {
	o := newTreeOptions(opts)
	out := make([]Record, 0, len(nodes))
	onPath := make(map[uintptr]bool)

	var walk func(level []Record) error
	walk = func(level []Record) error {
		for _, node := range level {
			if node == nil {
				continue
			}

			ptr := reflect.ValueOf(node).Pointer()
			if onPath[ptr] {
				return fmt.Errorf("node %s=%v: %w", o.id, node[o.id], ErrCyclicHierarchy)
			}

			kids := childNodes(node[o.children])

			emitted := node
			if !o.inPlace {
				emitted = maps.Clone(node)
			}
			delete(emitted, o.children)
			out = append(out, emitted)

			if len(kids) == 0 {
				continue
			}
			onPath[ptr] = true
			if err := walk(kids); err != nil {
				return err
			}
			delete(onPath, ptr)
		}
		return nil
	}

	if err := walk(nodes); err != nil {
		return nil, err
	}
	return out, nil
}

// childNodes normalizes the value of a children field.
func childNodes(v any) []Record {
	switch kids := v.(type) {
	case []Record:
		return kids
	case []any:
		out := make([]Record, 0, len(kids))
		for _, k := range kids {
			if m, ok := k.(Record); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// identity returns the canonical key of an identity value. Numbers and
// strings share one key space, so 1, int64(1), 1.0 and "1" are the same
// identity. Maps, slices and other non-scalars are never identities.
func identity(v any) (string, bool) {
	switch is.KindOf(v) {
	case is.KindNumber:
		f, _ := is.ToFloat64(v)
		return strconv.FormatFloat(f, 'f', -1, 64), true
	case is.KindString, is.KindBool:
		return fmt.Sprint(v), true
	}
	return "", false
}

// findCycle returns the index of a record on a parent cycle, or -1.
func findCycle(parents []int) int {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make([]uint8, len(parents))
	for start := range parents {
		var path []int
		i := start
		for i >= 0 && state[i] == unvisited {
			state[i] = visiting
			path = append(path, i)
			i = parents[i]
		}
		if i >= 0 && state[i] == visiting {
			return i
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return -1
}
