// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/command"
	"github.com/staranto/beltgo/internal/config"
	mylog "github.com/staranto/beltgo/internal/log"
	"github.com/staranto/beltgo/internal/storage"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(command.Version)
			return 0
		}
	}

	// Best-effort: drop stale local store files.
	purgeLocalStore()

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			return exit.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// purgeLocalStore removes local file store entries older than store.clean
// hours. Failures are logged, never fatal.
func purgeLocalStore() {
	hours, _ := config.GetInt("store.clean", 0)
	if hours <= 0 {
		return
	}
	base, ok := storage.Dir()
	if !ok {
		return
	}
	if err := storage.NewFileSurface(filepath.Join(base, "store")).Purge(hours); err != nil {
		log.WithError(err).Warn("store purge failed")
	}
}

// mangleArguments splices a configured argument set into args. `@name`
// anywhere on the command line selects <cmd>.name from the config file;
// without one, <cmd>.defaults is used. The set is inserted where the @name
// was, or right after the command.
func mangleArguments(args []string) []string {
	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			preamble := make([]string, 2)
			copy(preamble, args[:2])
			return append(preamble, "--help")
		}
	}

	// Global flags before the command are left alone.
	if strings.HasPrefix(args[1], "-") {
		return args
	}

	out := make([]string, 0, len(args))
	out = append(out, args...)

	idx := 2
	set := "defaults"
	// See if there is a @set specified. If so, that becomes our insertion point
	// and the @set entry is removed from args.
	for i, a := range out[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			idx += i
			out = append(out[:idx], out[idx+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(out[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		out = append(out[:idx], append(parts, out[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, out)
	return out
}
