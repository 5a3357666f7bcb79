// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/meta"
	"github.com/staranto/beltgo/internal/output"
	"github.com/staranto/beltgo/internal/shard"
)

// MergeCommandAction deep-merges the documents named on the command line,
// later documents winning. With --diff it prints the changes the merge made
// to the first document instead of the result.
func MergeCommandAction(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		names = []string{"-"}
	}

	docs := make([]map[string]any, 0, len(names))
	for _, name := range names {
		raw, err := readDocument(cmd, name)
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("%s: expected a JSON object: %w", name, err)
		}
		docs = append(docs, doc)
	}

	merged, err := shard.DeepMerge(docs...)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if !cmd.Bool("diff") {
		return output.Emit(merged, cmd, w)
	}

	if len(docs) < 2 {
		return errors.New("--diff needs at least two documents")
	}
	d, err := output.Diff(docs[0], merged, cmd.Bool("color"))
	if err != nil {
		return err
	}
	if d != "" {
		_, err = fmt.Fprint(w, d)
	}
	return err
}

func MergeCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "merge",
		Usage:     "deep-merge JSON documents",
		UsageText: `belt merge file... [options]`,
		Flags: []cli.Flag{
			NewPathFlag("merge", meta.Config.Source),
			&cli.BoolFlag{
				Name:        "diff",
				Aliases:     []string{"d"},
				Usage:       "show what the merge changed in the first document",
				HideDefault: true,
			},
		},
		Output: true,
		Action: MergeCommandAction,
		Meta:   meta,
	}).Build()
}
