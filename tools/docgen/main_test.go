// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/command"
	"github.com/staranto/beltgo/internal/meta"
)

const sampleDoc = "# belt sample\n\n## Short description\n\nDo a sample thing.\nStill the same paragraph.\n\nNot this one.\n\n" +
	"## Quick examples\n\n```sh\n# Run it\nbelt sample <file>\n# Run it   loudly\nbelt   sample -v\nbelt sample --bare\n## not a heading\nbelt sample --after\n```\n\n## Notes\n\nMore text.\n"

func sampleApp() *cli.Command {
	return &cli.Command{
		Name: "belt",
		Commands: []*cli.Command{
			{
				Name: "sample",
				Commands: []*cli.Command{
					{Name: "run", Usage: "run the sample"},
					{Name: "secret", Usage: "not shown", Hidden: true},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output format"},
					&cli.BoolFlag{Name: "quiet", Hidden: true},
					&cli.BoolFlag{Name: "tldr", Usage: "show tldr page"},
				},
			},
			{Name: "internal", Hidden: true},
		},
	}
}

func TestParsePage(t *testing.T) {
	p := parsePage(sampleDoc)
	assert.Equal(t, "belt sample", p.title)
	assert.Equal(t, "Do a sample thing. Still the same paragraph.", p.short())
	assert.Contains(t, p.sections, "quick examples")
	assert.Equal(t, "More text.", p.sections["notes"])

	bare := parsePage("# only a title\n")
	assert.Equal(t, "only a title.", bare.short())
	assert.Empty(t, parsePage("no headings").short())
}

func TestPageExamples(t *testing.T) {
	exs := parsePage(sampleDoc).examples()
	require.Len(t, exs, 4)
	assert.Equal(t, example{Desc: "Run it", Cmd: "belt sample <file>"}, exs[0])
	assert.Equal(t, example{Desc: "Run it   loudly", Cmd: "belt   sample -v"}, exs[1])
	assert.Equal(t, example{Desc: "Example", Cmd: "belt sample --bare"}, exs[2])
	assert.Equal(t, example{Desc: "not a heading", Cmd: "belt sample --after"}, exs[3])

	assert.Nil(t, parsePage("# no examples").examples())
}

func TestBuildTLDR(t *testing.T) {
	p := parsePage("# belt sample\n\n## Short description\n\nDo a sample thing.\n\n## Quick examples\n\n```\n# Run it\nbelt sample <file>\n# Run it   loudly\nbelt   sample -v\n```\n")
	p.name = "sample"
	assert.Equal(t, "# belt-sample\n\n"+
		"> Do a sample thing.\n"+
		"> More information: https://github.com/staranto/beltgo.\n\n"+
		"- Run it:\n\n`belt sample {{file}}`\n\n"+
		"- Run it   loudly:\n\n`belt sample -v`\n", buildTLDR(p))

	bare := page{name: "bare"}
	got := buildTLDR(bare)
	assert.Contains(t, got, "> belt bare\n")
	assert.Contains(t, got, "`belt bare --help`")
}

func TestReference(t *testing.T) {
	got := string(reference(sampleApp().Commands[0]))

	assert.Contains(t, got, "## Subcommands\n\n- `run`: run the sample\n")
	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "## Options\n\n- `--output`, `-o`: output format\n")
	assert.NotContains(t, got, "quiet")
	assert.NotContains(t, got, "tldr")

	assert.Nil(t, reference(nil))
	assert.Empty(t, reference(&cli.Command{Name: "plain"}))
}

func TestCheckCoverage(t *testing.T) {
	app := sampleApp()

	assert.NoError(t, checkCoverage(app, []page{{name: "sample"}}))
	assert.NoError(t, checkCoverage(nil, []page{{name: "anything"}}))
	assert.ErrorContains(t, checkCoverage(app, nil), "no docs/commands page for: sample")
	assert.ErrorContains(t, checkCoverage(app, []page{{name: "sample"}, {name: "gone"}}), "gone.md documents no belt command")
}

func TestCommandDocsCoverBelt(t *testing.T) {
	pages, err := loadPages(filepath.Join("..", "..", "docs", "commands"))
	require.NoError(t, err)

	app := command.NewApp(meta.Meta{Stdout: io.Discard})
	assert.NoError(t, checkCoverage(app, pages))

	for _, p := range pages {
		assert.NotEmpty(t, p.examples(), "%s has no quick examples", p.name)
	}
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "commands"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "commands", "sample.md"), []byte(sampleDoc), 0o644))

	n, err := generate(root, sampleApp(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	man, err := os.ReadFile(filepath.Join(root, "docs", "man", "share", "man1", "belt-sample.1"))
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(string(man)), "subcommands", "man page carries the command reference")
	assert.Contains(t, string(man), "run the sample")

	tldr, err := os.ReadFile(filepath.Join(root, "docs", "tldr", "belt-sample.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tldr), "# belt-sample\n"))

	n, err = generate(root, sampleApp(), true)
	require.NoError(t, err, "rerun with unchanged content")
	assert.Equal(t, 1, n)

	_, err = generate(t.TempDir(), sampleApp(), true)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "commands", "stray.md"), []byte("# stray\n"), 0o644))
	_, err = generate(root, sampleApp(), true)
	assert.ErrorContains(t, err, "stray.md documents no belt command")
}
