// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/config"
	"github.com/staranto/beltgo/internal/meta"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the belt
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Debugf("no config: %v", err)
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns

	return NewApp(meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
	}), nil
}

// NewApp assembles the command tree around meta.
func NewApp(meta meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:    "belt",
		Usage:   "utility belt for JSON records, URLs and a small expiring store",
		Version: Version,
		Metadata: map[string]any{
			"meta": meta,
		},
		Writer: meta.Stdout,
		// Exit codes are decided by main.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	app.Commands = append(app.Commands,
		TreeCommandBuilder(meta),
		FlatCommandBuilder(meta),
		FlattenCommandBuilder(meta),
		MergeCommandBuilder(meta),
		StoreCommandBuilder(meta),
		FmtCommandBuilder(meta),
		QueryCommandBuilder(meta),
		IsCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sortFlags(cmd)
	}

	return app
}

func sortFlags(cmd *cli.Command) {
	sort.Slice(cmd.Flags, func(i, j int) bool {
		return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
	})
	for _, sub := range cmd.Commands {
		sortFlags(sub)
	}
}
