// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/filters"
	"github.com/staranto/beltgo/internal/meta"
	"github.com/staranto/beltgo/internal/output"
	"github.com/staranto/beltgo/internal/shard"
)

// treeOptions maps the --id, --pid and --children flags to shard options.
func treeOptions(cmd *cli.Command) []shard.TreeOption {
	return []shard.TreeOption{
		shard.WithIDField(cmd.String("id")),
		shard.WithParentField(cmd.String("pid")),
		shard.WithChildrenField(cmd.String("children")),
	}
}

// TreeCommandAction links flat records into a forest. Records that fail
// --filter are dropped before linking, so their children become roots, and
// --sort orders siblings.
func TreeCommandAction(ctx context.Context, cmd *cli.Command) error {
	raw, err := ReadInput(cmd)
	if err != nil {
		return err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return err
	}

	al := BuildAttrs(cmd)
	set, err := filters.Parse(cmd.String("filter"))
	if err != nil {
		return err
	}
	if len(set) > 0 {
		kept := make([]shard.Record, 0, len(records))
		for _, rec := range gjson.ParseBytes(raw).Array() {
			if set.Match(rec, al) {
				var r shard.Record
				if err := json.Unmarshal([]byte(rec.Raw), &r); err != nil {
					return fmt.Errorf("failed to decode record: %w", err)
				}
				kept = append(kept, r)
			}
		}
		records = kept
	}
	output.SortDataset(records, cmd.String("sort"))

	forest, err := shard.FlatToTree(records, append(treeOptions(cmd), shard.InPlace())...)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if cmd.String("output") == "text" {
		return output.TreeWriter(forest, al, cmd.String("id"), cmd.String("children"), w)
	}
	return output.Emit(forest, cmd, w)
}

func TreeCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "tree",
		Usage:     "link flat records into a tree",
		UsageText: `belt tree [file] [options]`,
		Flags: append([]cli.Flag{
			NewPathFlag("tree", meta.Config.Source),
		}, NewTreeFieldFlags(meta.Config.Source)...),
		Output: true,
		Action: TreeCommandAction,
		Meta:   meta,
	}).Build()
}

// FlatCommandAction flattens a forest back into records, parents before
// children, and runs them through the output pipeline.
func FlatCommandAction(ctx context.Context, cmd *cli.Command) error {
	raw, err := ReadInput(cmd)
	if err != nil {
		return err
	}

	nodes, err := decodeRecords(raw)
	if err != nil {
		return err
	}

	records, err := shard.FlattenTree(nodes, append(treeOptions(cmd), shard.InPlace())...)
	if err != nil {
		return err
	}

	flat, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return output.SliceDiceSpit(flat, BuildAttrs(cmd), cmd, "", stdout(cmd))
}

func FlatCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "flat",
		Usage:     "flatten a tree into records",
		UsageText: `belt flat [file] [options]`,
		Flags: append([]cli.Flag{
			NewPathFlag("flat", meta.Config.Source),
		}, NewTreeFieldFlags(meta.Config.Source)...),
		Output: true,
		Action: FlatCommandAction,
		Meta:   meta,
	}).Build()
}

// FlattenCommandAction flattens nested arrays. A result made only of objects
// is treated as a record set.
func FlattenCommandAction(ctx context.Context, cmd *cli.Command) error {
	raw, err := ReadInput(cmd)
	if err != nil {
		return err
	}

	var seq []any
	if err := json.Unmarshal(raw, &seq); err != nil {
		return fmt.Errorf("expected a JSON array: %w", err)
	}
	flat, err := shard.Flatten(seq)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if !allObjects(flat) {
		return output.Emit(flat, cmd, w)
	}

	b, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return output.SliceDiceSpit(b, BuildAttrs(cmd), cmd, "", w)
}

func allObjects(seq []any) bool {
	if len(seq) == 0 {
		return false
	}
	for _, v := range seq {
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func FlattenCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "flatten",
		Usage:     "flatten nested arrays",
		UsageText: `belt flatten [file] [options]`,
		Flags: []cli.Flag{
			NewPathFlag("flatten", meta.Config.Source),
		},
		Output: true,
		Action: FlattenCommandAction,
		Meta:   meta,
	}).Build()
}
