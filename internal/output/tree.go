// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/staranto/beltgo/internal/attrs"
	"github.com/staranto/beltgo/internal/driller"
	"github.com/staranto/beltgo/internal/is"
)

// TreeWriter renders nodes as an ASCII tree. Each node is labelled with the
// values of the included attrs or, without attrs, with its id followed by
// its other scalar fields as key=value.
func TreeWriter(nodes []map[string]any, al attrs.AttrList, idField, childrenField string, w io.Writer) error {
	root := treeprint.New()
	if err := addTreeNodes(root, nodes, al.Included(), idField, childrenField); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, root.String())
	return err
}

func addTreeNodes(tree treeprint.Tree, nodes []map[string]any, al attrs.AttrList, idField, childrenField string) error {
	for _, node := range nodes {
		label, err := treeLabel(node, al, idField, childrenField)
		if err != nil {
			return err
		}

		kids := childMaps(node[childrenField])
		if len(kids) == 0 {
			tree.AddNode(label)
			continue
		}
		if err := addTreeNodes(tree.AddBranch(label), kids, al, idField, childrenField); err != nil {
			return err
		}
	}
	return nil
}

func treeLabel(node map[string]any, al attrs.AttrList, idField, childrenField string) (string, error) {
	if len(al) > 0 {
		flat := make(map[string]any, len(node))
		for k, v := range node {
			if k != childrenField {
				flat[k] = v
			}
		}
		raw, err := json.Marshal(flat)
		if err != nil {
			return "", fmt.Errorf("failed to encode node: %w", err)
		}

		parts := make([]string, 0, len(al))
		for i := range al {
			v := driller.Driller(string(raw), al[i].Key).Value()
			parts = append(parts, InterfaceToString(al[i].Transform(v), "-"))
		}
		return strings.Join(parts, " "), nil
	}

	var keys []string
	for k, v := range node {
		if k == idField || k == childrenField {
			continue
		}
		if kind := is.KindOf(v); kind == is.KindArray || kind == is.KindObject {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{InterfaceToString(node[idField], "-")}
	for _, k := range keys {
		parts = append(parts, k+"="+InterfaceToString(node[k]))
	}
	return strings.Join(parts, " "), nil
}

// childMaps accepts the children shapes produced by tree building and by
// JSON decoding.
func childMaps(v any) []map[string]any {
	switch c := v.(type) {
	case []map[string]any:
		return c
	case []any:
		out := make([]map[string]any, 0, len(c))
		for _, e := range c {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
