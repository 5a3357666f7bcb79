// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/meta"
	"github.com/staranto/beltgo/internal/output"
	"github.com/staranto/beltgo/internal/query"
)

// QueryBuildAction appends key=value pairs to a base URL. Values that are
// valid JSON are encoded from their decoded form.
func QueryBuildAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return errors.New("build expects a base URL")
	}

	params := make(map[string]any, len(args)-1)
	for _, pair := range args[1:] {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid parameter %q: want key=value", pair)
		}
		params[k] = parseValue(v)
	}
	if cmd.Bool("drop-empty") {
		params = query.RemoveEmptyValue(params)
	}

	return output.Emit(query.ToQuery(args[0], params), cmd, stdout(cmd))
}

func QueryGetAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return errors.New("get expects a URL and a parameter name")
	}
	v, ok := query.Variable(args[0], args[1])
	if !ok {
		return fmt.Errorf("parameter %q not found", args[1])
	}
	return output.Emit(v, cmd, stdout(cmd))
}

func QueryObjectAction(ctx context.Context, cmd *cli.Command) error {
	u := cmd.Args().First()
	if u == "" {
		return errors.New("object expects a URL")
	}
	obj, err := query.Object(u)
	if err != nil {
		return err
	}

	m := make(map[string]any, len(obj))
	for k, v := range obj {
		m[k] = v
	}
	return output.Emit(m, cmd, stdout(cmd))
}

func QueryNormalizeAction(ctx context.Context, cmd *cli.Command) error {
	u := cmd.Args().First()
	if u == "" {
		return errors.New("normalize expects a URL")
	}
	n, err := query.Normalize(u, cmd.Bool("greedy"))
	if err != nil {
		return err
	}
	return output.Emit(n, cmd, stdout(cmd))
}

func QueryCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "query",
		Usage:     "build and read URL query strings",
		UsageText: `belt query build|get|object|normalize url [options]`,
		Output:    true,
		Meta:      meta,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "append parameters to a URL",
				UsageText: `belt query build url key=value...`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "drop-empty",
						Usage:       "drop null and empty parameters",
						HideDefault: true,
					},
				},
				Action: QueryBuildAction,
			},
			{
				Name:      "get",
				Usage:     "print one query parameter",
				UsageText: `belt query get url name`,
				Action:    QueryGetAction,
			},
			{
				Name:      "object",
				Usage:     "print every query parameter",
				UsageText: `belt query object url`,
				Action:    QueryObjectAction,
			},
			{
				Name:      "normalize",
				Usage:     "normalize a URL",
				UsageText: `belt query normalize url [--greedy]`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "greedy",
						Usage:       "also apply normalizations that may change meaning",
						HideDefault: true,
					},
				},
				Action: QueryNormalizeAction,
			},
		},
	}).Build()
}
