// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/format"
	"github.com/staranto/beltgo/internal/meta"
	"github.com/staranto/beltgo/internal/output"
)

// FmtDateAction formats a date, or now when none is given. Input dates are
// parsed leniently.
func FmtDateAction(ctx context.Context, cmd *cli.Command) error {
	t := time.Now()
	if s := strings.Join(cmd.Args().Slice(), " "); s != "" {
		var err error
		if t, err = format.ParseDate(s); err != nil {
			return err
		}
	}
	return output.Emit(format.FormatDate(t, cmd.String("layout")), cmd, stdout(cmd))
}

func FmtMoneyAction(ctx context.Context, cmd *cli.Command) error {
	s := cmd.Args().First()
	if s == "" {
		return errors.New("money expects a number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	return output.Emit(format.FormatMoney(v, cmd.Int("decimals")), cmd, stdout(cmd))
}

func FmtTextAction(ctx context.Context, cmd *cli.Command) error {
	s := strings.Join(cmd.Args().Slice(), " ")
	return output.Emit(format.SubText(s, cmd.Int("len")), cmd, stdout(cmd))
}

func FmtCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "fmt",
		Usage:     "format dates, money and text",
		UsageText: `belt fmt date|money|text value [options]`,
		Output:    true,
		Meta:      meta,
		Commands: []*cli.Command{
			{
				Name:      "date",
				Usage:     "format a date",
				UsageText: `belt fmt date [date] [--layout yyyy-MM-dd]`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "layout",
						Usage: "layout using y M d h m s tokens",
						Sources: cli.NewValueSourceChain(
							cli.EnvVar("BELT_DATE_LAYOUT"),
							yaml.YAML("fmt.date", altsrc.StringSourcer(meta.Config.Source)),
						),
						Value: format.DefaultDateLayout,
					},
				},
				Action: FmtDateAction,
			},
			{
				Name:      "money",
				Usage:     "format a number with thousands separators",
				UsageText: `belt fmt money number [--decimals n]`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "decimals",
						Usage: "number of decimal places",
						Sources: cli.NewValueSourceChain(
							yaml.YAML("fmt.decimals", altsrc.StringSourcer(meta.Config.Source)),
						),
						Value: 2,
					},
				},
				Action: FmtMoneyAction,
			},
			{
				Name:      "text",
				Usage:     "truncate text to a number of characters",
				UsageText: `belt fmt text string --len n`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "len",
						Aliases:  []string{"n"},
						Usage:    "characters to keep",
						Required: true,
					},
				},
				Action: FmtTextAction,
			},
		},
	}).Build()
}
