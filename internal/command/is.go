// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/is"
	"github.com/staranto/beltgo/internal/meta"
	"github.com/staranto/beltgo/internal/output"
)

// predicateExamples are shown by --list.
var predicateExamples = map[string]string{
	"base64":  "data:image/png;base64,iVBORw0KGgo=",
	"chinese": "你好",
	"email":   "zhang@example.com",
	"idcard":  "11010519491231002X",
	"ip":      "192.168.0.1",
	"phone":   "13800138000",
	"url":     "https://example.com/a?b=c",
}

// IsCommandAction runs a predicate over a value. It prints true or false and
// exits 1 when the value does not match.
func IsCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	if cmd.Bool("list") {
		names := make([]string, 0, len(is.Predicates))
		for name := range is.Predicates {
			names = append(names, name)
		}
		slices.Sort(names)

		examples := make([][2]string, 0, len(names))
		for _, name := range names {
			examples = append(examples, [2]string{name, predicateExamples[name]})
		}
		output.DumpExamples(examples, w)
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("is expects a predicate and a value")
	}

	check, ok := is.Predicates[args[0]]
	if !ok {
		return fmt.Errorf("unknown predicate %q; see --list", args[0])
	}

	matched := check(strings.Join(args[1:], " "))
	fmt.Fprintln(w, matched)
	if !matched {
		return cli.Exit("", 1)
	}
	return nil
}

func IsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "is",
		Usage:     "test a value against a predicate",
		UsageText: `belt is predicate value`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "list",
				Aliases:     []string{"l"},
				Usage:       "list predicates with an example of each",
				HideDefault: true,
			},
		},
		Action: IsCommandAction,
		Meta:   meta,
	}).Build()
}
