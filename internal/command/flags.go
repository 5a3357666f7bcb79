// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/config"
	"github.com/staranto/beltgo/internal/output"
)

func init() {
	cfg, _ = config.Load()
}

var (
	cfg config.Type

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewGlobalFlags returns the output flags shared by every record or value
// producing command. params[0] is the command name, used as the config
// namespace.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: output.IsTerminal(os.Stdout),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BELT_OUTPUT"),
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewPathFlag selects the part of the input document a command works on.
func NewPathFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "path",
		Aliases: []string{"p"},
		Usage:   "gjson path selecting the input data",
		Sources: cli.NewValueSourceChain(),
	}
	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}
	return flag
}

// NewTreeFieldFlags returns the --id, --pid and --children flags. Their
// defaults can be set under the tree key of the config file.
func NewTreeFieldFlags(path string) []cli.Flag {
	field := func(name, usage, value string) *cli.StringFlag {
		return &cli.StringFlag{
			Name:  name,
			Usage: usage,
			Sources: cli.NewValueSourceChain(
				yaml.YAML("tree."+name, altsrc.StringSourcer(path)),
			),
			Value: value,
			Validator: func(value string) error {
				return FlagValidators(value, NotEmptyValidator)
			},
		}
	}
	return []cli.Flag{
		field("id", "identity field", "id"),
		field("pid", "parent identity field", "pid"),
		field("children", "children field", "children"),
	}
}

// NewScopeFlags returns the --scope and --engine flags for store commands.
func NewScopeFlags(path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "scope",
			Usage: "store scope, session or local",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BELT_SCOPE"),
				yaml.YAML("store.scope", altsrc.StringSourcer(path)),
			),
			Value: "session",
			Validator: func(value string) error {
				return FlagValidators(value, ScopeValidator)
			},
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "local store engine, file or pebble",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("BELT_STORE_ENGINE"),
				yaml.YAML("store.engine", altsrc.StringSourcer(path)),
			),
			Value: "file",
			Validator: func(value string) error {
				return FlagValidators(value, EngineValidator)
			},
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
