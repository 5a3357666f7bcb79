// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/attrs"
	"github.com/staranto/beltgo/internal/meta"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr belt-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "belt-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value. Subcommands find the
// meta of the nearest ancestor that carries one.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil {
		return meta.Meta{}
	}
	for _, c := range cmd.Lineage() {
		if c.Metadata == nil {
			continue
		}
		if m, ok := c.Metadata["meta"].(meta.Meta); ok {
			return m
		}
	}
	return meta.Meta{}
}

// stdout returns the writer results go to.
func stdout(cmd *cli.Command) io.Writer {
	if w := GetMeta(cmd).Stdout; w != nil {
		return w
	}
	return os.Stdout
}

// ReadInput returns the JSON document named by the first argument, or stdin
// when there is no argument or it is "-". When --path is set only the
// selected part of the document is returned.
func ReadInput(cmd *cli.Command) ([]byte, error) {
	return readDocument(cmd, cmd.Args().First())
}

func readDocument(cmd *cli.Command, name string) ([]byte, error) {
	var (
		raw []byte
		err error
	)

	if name == "" || name == "-" {
		in := GetMeta(cmd).Stdin
		if in == nil {
			in = os.Stdin
		}
		raw, err = io.ReadAll(in)
		name = "stdin"
	} else {
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s is not valid JSON", name)
	}

	if path := cmd.String("path"); path != "" {
		selected := gjson.GetBytes(raw, path)
		if !selected.Exists() {
			return nil, fmt.Errorf("path %q not found in %s", path, name)
		}
		log.Debugf("selected %s from %s", path, name)
		raw = []byte(selected.Raw)
	}

	return raw, nil
}

// decodeRecords decodes a JSON array of objects. A single object is treated
// as a list of one.
func decodeRecords(raw []byte) ([]map[string]any, error) {
	doc := gjson.ParseBytes(raw)
	if doc.IsObject() {
		raw = []byte("[" + doc.Raw + "]")
	} else if !doc.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of objects")
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	return records, nil
}

// CommandBuilder is a helper that constructs a cli.Command using a
// consistent pattern. It wires metadata, adds the tldr flag, applies the
// global output flags when Output is set, and sets up validators.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Output    bool
	Action    func(context.Context, *cli.Command) error
	Commands  []*cli.Command
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append(cb.Flags, tldrFlag)
	if cb.Output {
		flags = append(flags, NewGlobalFlags(cb.Name)...)
	}

	cmd := &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags:    flags,
		Commands: cb.Commands,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
	}

	if cb.Action != nil {
		name := cb.Name
		action := cb.Action
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			if ShortCircuitTLDR(ctx, c, name) {
				return nil
			}
			log.Debugf("executing %s %v", name, c.Args().Slice())
			return action(ctx, c)
		}
	}

	return cmd
}
