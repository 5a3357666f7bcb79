// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/command"
	"github.com/staranto/beltgo/internal/meta"
)

// Doc generator for belt:
//   - Reads docs/commands/<cmd>.md, one per top-level belt command. A command
//     without a page, or a page without a command, fails the run.
//   - Writes docs/man/share/man1/belt-<cmd>.1, the page plus a Subcommands and
//     Options reference taken from the live command tree.
//   - Writes docs/tldr/belt-<cmd>.md from the Short description and Quick
//     examples sections. These are the pages `belt <cmd> --tldr` shows.

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	app := command.NewApp(meta.Meta{Stdin: os.Stdin, Stdout: io.Discard})
	n, err := generate(repoRoot, app, writeOnlyIfChanged)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("generated docs for %d commands\n", n)
}

// page is one parsed docs/commands file.
type page struct {
	name     string
	title    string
	sections map[string]string
	raw      []byte
}

type example struct {
	Desc string
	Cmd  string
}

// generate renders the page of every command of app found under root and
// returns how many were written.
func generate(root string, app *cli.Command, onlyIfChanged bool) (int, error) {
	commandsDir := filepath.Join(root, "docs", "commands")
	manOutDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(root, "docs", "tldr")

	pages, err := loadPages(commandsDir)
	if err != nil {
		return 0, err
	}
	if err := checkCoverage(app, pages); err != nil {
		return 0, err
	}

	for _, dir := range []string{manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output dir %s: %w", dir, err)
		}
	}

	for i, p := range pages {
		man := append(slices.Clone(bytes.TrimRight(p.raw, "\n")), '\n')
		man = append(man, reference(findCommand(app, p.name))...)
		manPath := filepath.Join(manOutDir, "belt-"+p.name+".1")
		if err := writeFileIfChanged(manPath, md2man.Render(man), onlyIfChanged); err != nil {
			return i, fmt.Errorf("writing man page for %s: %w", p.name, err)
		}

		tldrPath := filepath.Join(tldrOutDir, "belt-"+p.name+".md")
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(p)), onlyIfChanged); err != nil {
			return i, fmt.Errorf("writing TLDR for %s: %w", p.name, err)
		}
	}
	return len(pages), nil
}

// loadPages reads every *.md under dir, sorted by command name.
func loadPages(dir string) ([]page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading commands dir %s: %w", dir, err)
	}

	var pages []page
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		p := parsePage(string(raw))
		p.name = strings.TrimSuffix(e.Name(), ".md")
		p.raw = raw
		pages = append(pages, p)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no command markdown found under %s", dir)
	}
	slices.SortFunc(pages, func(a, b page) int { return strings.Compare(a.name, b.name) })
	return pages, nil
}

// checkCoverage requires a page for every visible top-level command and a
// command for every page. A nil app skips the check.
func checkCoverage(app *cli.Command, pages []page) error {
	if app == nil {
		return nil
	}

	documented := map[string]bool{}
	for _, p := range pages {
		documented[p.name] = true
		if findCommand(app, p.name) == nil {
			return fmt.Errorf("docs/commands/%s.md documents no belt command", p.name)
		}
	}

	var missing []string
	for _, c := range app.Commands {
		if !c.Hidden && !documented[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no docs/commands page for: %s", strings.Join(missing, ", "))
	}
	return nil
}

func findCommand(app *cli.Command, name string) *cli.Command {
	if app == nil {
		return nil
	}
	for _, c := range app.Commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var headingRe = regexp.MustCompile(`^(#{1,2})\s+(.+?)\s*$`)

// parsePage splits md into its H1 title and its H2 sections, keyed by the
// lower-cased heading. Lines inside code fences are never headings.
func parsePage(md string) page {
	p := page{sections: map[string]string{}}

	var (
		current string
		body    strings.Builder
		inFence bool
	)
	flush := func() {
		if current != "" {
			p.sections[current] = strings.TrimSpace(body.String())
		}
		body.Reset()
	}

	for _, ln := range strings.Split(md, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if strings.HasPrefix(strings.TrimSpace(ln), "```") {
			inFence = !inFence
		}
		if m := headingRe.FindStringSubmatch(ln); m != nil && !inFence {
			if m[1] == "#" {
				if p.title == "" {
					p.title = m[2]
				}
				continue
			}
			flush()
			current = strings.ToLower(m[2])
			continue
		}
		body.WriteString(ln)
		body.WriteString("\n")
	}
	flush()
	return p
}

// short is the first paragraph of the Short description, or the title.
func (p page) short() string {
	para, _, _ := strings.Cut(p.sections["short description"], "\n\n")
	if s := strings.Join(strings.Fields(para), " "); s != "" {
		return s
	}
	if p.title != "" {
		return p.title + "."
	}
	return ""
}

// examples pairs each "# description" line of the first Quick examples code
// block with the command line that follows it.
func (p page) examples() []example {
	block := p.sections["quick examples"]
	start := strings.Index(block, "```")
	if start < 0 {
		return nil
	}
	block = block[start+3:]
	// Drop a language tag on the opening fence.
	if nl := strings.Index(block, "\n"); nl >= 0 {
		block = block[nl+1:]
	}
	if end := strings.Index(block, "```"); end >= 0 {
		block = block[:end]
	}

	var (
		exs  []example
		desc string
	)
	for _, ln := range strings.Split(block, "\n") {
		s := strings.TrimSpace(ln)
		switch {
		case s == "":
		case strings.HasPrefix(s, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(s, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: s})
			desc = ""
		}
	}
	return exs
}

func buildTLDR(p page) string {
	var b strings.Builder
	b.WriteString("# belt-" + p.name + "\n\n")
	if short := p.short(); short != "" {
		b.WriteString("> " + short + "\n")
	} else {
		b.WriteString("> belt " + p.name + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/beltgo.\n\n")

	exs := p.examples()
	if len(exs) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`belt " + p.name + " --help`\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.Desc + ":\n\n")
		b.WriteString("`" + sanitizeCommand(ex.Cmd) + "`\n")
	}
	return b.String()
}

// reference renders the Subcommands and Options of cmd as markdown. Hidden
// commands and flags are left out.
func reference(cmd *cli.Command) []byte {
	if cmd == nil {
		return nil
	}

	var b bytes.Buffer
	var subs []*cli.Command
	for _, c := range cmd.Commands {
		if !c.Hidden {
			subs = append(subs, c)
		}
	}
	if len(subs) > 0 {
		b.WriteString("\n## Subcommands\n\n")
		for _, c := range subs {
			fmt.Fprintf(&b, "- `%s`: %s\n", c.Name, c.Usage)
		}
	}

	var opts []string
	for _, f := range cmd.Flags {
		if v, ok := f.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
			continue
		}
		// --tldr is only visible where tldr is installed.
		if slices.Contains(f.Names(), "tldr") {
			continue
		}
		var names []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "`-"+n+"`")
			} else {
				names = append(names, "`--"+n+"`")
			}
		}
		line := "- " + strings.Join(names, ", ")
		if u, ok := f.(interface{ GetUsage() string }); ok && u.GetUsage() != "" {
			line += ": " + u.GetUsage()
		}
		opts = append(opts, line)
	}
	if len(opts) > 0 {
		b.WriteString("\n## Options\n\n")
		b.WriteString(strings.Join(opts, "\n"))
		b.WriteString("\n")
	}
	return b.Bytes()
}

func writeFileIfChanged(path string, content []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, content, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)) {
		return nil
	}
	return os.WriteFile(path, content, 0o644)
}

var placeholderRe = regexp.MustCompile(`<([^<>]+)>`)

// sanitizeCommand compresses whitespace and rewrites <placeholder> as the
// {{placeholder}} form tldr clients highlight.
func sanitizeCommand(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return placeholderRe.ReplaceAllString(s, "{{$1}}")
}
