// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/config"
	"github.com/staranto/beltgo/internal/format"
	"github.com/staranto/beltgo/internal/meta"
	"github.com/staranto/beltgo/internal/output"
	"github.com/staranto/beltgo/internal/storage"
)

// openStore opens the store selected by --scope and --engine. The returned
// func releases the surface and must always be called.
func openStore(cmd *cli.Command) (*storage.Store, func(), error) {
	scope, err := storage.ParseScope(cmd.String("scope"))
	if err != nil {
		return nil, nil, err
	}

	surface, err := storage.OpenSurface(scope, cmd.String("engine"))
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if c, ok := surface.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("failed to close store")
			}
		}
	}

	ttl, _ := config.GetInt("store.ttl", 0)
	return storage.New(surface, storage.WithDefaultTTL(time.Duration(ttl)*time.Second)), release, nil
}

// storeArgs checks the argument count of a store subcommand.
func storeArgs(cmd *cli.Command, n int) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) != n {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", cmd.Name, n, len(args))
	}
	return args, nil
}

// parseValue decodes a command line value as JSON when it is valid JSON and
// keeps it as a string otherwise.
func parseValue(s string) any {
	if gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	return s
}

func StoreSetAction(ctx context.Context, cmd *cli.Command) error {
	args, err := storeArgs(cmd, 2)
	if err != nil {
		return err
	}

	var value any = args[1]
	if !cmd.Bool("string") {
		value = parseValue(args[1])
	}

	ttl := storage.DefaultTTL()
	if cmd.IsSet("ttl") {
		ttl = storage.ParseTTL(cmd.String("ttl"))
	}

	s, release, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer release()

	return s.Set(args[0], value, ttl)
}

func StoreGetAction(ctx context.Context, cmd *cli.Command) error {
	args, err := storeArgs(cmd, 1)
	if err != nil {
		return err
	}

	s, release, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer release()

	v, ok, err := s.Get(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%q not found", args[0])
	}
	return output.Emit(v, cmd, stdout(cmd))
}

func StoreRemoveAction(ctx context.Context, cmd *cli.Command) error {
	keys := cmd.Args().Slice()
	if len(keys) == 0 {
		return errors.New("rm expects at least one key")
	}

	s, release, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer release()

	for _, k := range keys {
		if err := s.Remove(k); err != nil {
			return err
		}
	}
	return nil
}

func StoreClearAction(ctx context.Context, cmd *cli.Command) error {
	s, release, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer release()

	return s.Clear()
}

// StoreExpiryAction prints when a key expires, or never.
func StoreExpiryAction(ctx context.Context, cmd *cli.Command) error {
	args, err := storeArgs(cmd, 1)
	if err != nil {
		return err
	}

	s, release, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer release()

	exp, ok, err := s.Expiry(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%q not found", args[0])
	}

	when := "never"
	if !exp.IsZero() {
		layout, _ := config.GetString("fmt.date", format.DefaultDateLayout)
		when = format.FormatDate(exp, layout)
	}
	return output.Emit(when, cmd, stdout(cmd))
}

// StorePurgeAction removes local file entries older than --hours, whatever
// their recorded expiry.
func StorePurgeAction(ctx context.Context, cmd *cli.Command) error {
	s, release, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer release()

	fs, ok := s.Surface().(*storage.FileSurface)
	if !ok {
		log.Debugf("%T cannot be purged", s.Surface())
		return nil
	}
	return fs.Purge(cmd.Int("hours"))
}

func StoreCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "store",
		Usage:     "expiring key-value store",
		UsageText: `belt store set|get|rm|clear|expiry|purge [options]`,
		Flags:     NewScopeFlags(meta.Config.Source),
		Output:    true,
		Meta:      meta,
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "store a value",
				UsageText: `belt store set key value [--ttl seconds|never]`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ttl",
						Usage: "seconds until the entry expires, or never",
					},
					&cli.BoolFlag{
						Name:        "string",
						Usage:       "store the value as a string even if it is valid JSON",
						HideDefault: true,
					},
				},
				Action: StoreSetAction,
			},
			{
				Name:      "get",
				Usage:     "print a stored value",
				UsageText: `belt store get key`,
				Action:    StoreGetAction,
			},
			{
				Name:      "rm",
				Usage:     "remove keys",
				UsageText: `belt store rm key...`,
				Action:    StoreRemoveAction,
			},
			{
				Name:   "clear",
				Usage:  "remove every key in the scope",
				Action: StoreClearAction,
			},
			{
				Name:      "expiry",
				Usage:     "print when a key expires",
				UsageText: `belt store expiry key`,
				Action:    StoreExpiryAction,
			},
			{
				Name:  "purge",
				Usage: "remove file entries older than --hours",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "age in hours; 0 disables purging",
						Sources: cli.NewValueSourceChain(
							cli.EnvVar("BELT_STORE_CLEAN"),
							yaml.YAML("store.clean", altsrc.StringSourcer(meta.Config.Source)),
						),
						Value: 0,
					},
				},
				Action: StorePurgeAction,
			},
		},
	}).Build()
}
