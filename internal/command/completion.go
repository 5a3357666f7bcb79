// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/meta"
)

const bashCompletionScript = `# bash completion for belt
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_belt()
{
    local cur prev cmd sub
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "tree flat flatten merge store fmt query is completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    sub=${COMP_WORDS[2]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"
    local fields="--id --pid --children --path -p"

    case "$cmd" in
        tree|flat)
            local opts="$common $fields"
            ;;
        flatten)
            local opts="$common --path -p"
            ;;
        merge)
            local opts="$common --path -p --diff -d"
            ;;
        store)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "set get rm clear expiry purge" -- "$cur") )
                return 0
            fi
            local opts="$common --scope --engine"
            case "$sub" in
                set) opts="$opts --ttl --string" ;;
                purge) opts="$opts --hours" ;;
            esac
            if [[ "$prev" == "--scope" ]]; then
                COMPREPLY=( $(compgen -W "session local" -- "$cur") )
                return 0
            fi
            if [[ "$prev" == "--engine" ]]; then
                COMPREPLY=( $(compgen -W "file pebble" -- "$cur") )
                return 0
            fi
            ;;
        fmt)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "date money text" -- "$cur") )
                return 0
            fi
            local opts="$common --layout --decimals --len -n"
            ;;
        query)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "build get object normalize" -- "$cur") )
                return 0
            fi
            local opts="$common --drop-empty --greedy"
            ;;
        is)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "base64 chinese email idcard ip phone url --list" -- "$cur") )
                return 0
            fi
            local opts="--list -l"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Positional input files
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _belt belt
`

const zshCompletionScript = `#compdef belt

_belt() {
  local -a cmds
  cmds=(
    'tree:link flat records into a tree'
    'flat:flatten a tree into records'
    'flatten:flatten nested arrays'
    'merge:deep-merge JSON documents'
    'store:expiring key-value store'
    'fmt:format dates, money and text'
    'query:build and read URL query strings'
    'is:test a value against a predicate'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  local -a fields
  fields=(
  '--id[identity field]:field'
  '--pid[parent identity field]:field'
  '--children[children field]:field'
  '(-p --path)'{-p,--path}'[gjson path]:path'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'belt commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    tree|flat)
      _arguments -C $common $fields '::file:_files'
      ;;
    flatten)
      _arguments -C $common '(-p --path)'{-p,--path}'[gjson path]:path' '::file:_files'
      ;;
    merge)
      _arguments -C $common \
        '(-d --diff)'{-d,--diff}'[show changes to the first document]' \
        '*:file:_files'
      ;;
    store)
      _arguments -C $common \
        '--scope[store scope]:scope:(session local)' \
        '--engine[local engine]:engine:(file pebble)' \
        '--ttl[seconds or never]:ttl' \
        '--string[store value as a string]' \
        '--hours[purge age]:hours' \
        '1:subcommand:(set get rm clear expiry purge)' \
        '*:key'
      ;;
    fmt)
      _arguments -C $common \
        '--layout[date layout]:layout' \
        '--decimals[decimal places]:n' \
        '(-n --len)'{-n,--len}'[characters to keep]:n' \
        '1:subcommand:(date money text)' \
        '*:value'
      ;;
    query)
      _arguments -C $common \
        '--drop-empty[drop empty parameters]' \
        '--greedy[greedy normalization]' \
        '1:subcommand:(build get object normalize)' \
        '*:url'
      ;;
    is)
      _arguments -C \
        '(-l --list)'{-l,--list}'[list predicates]' \
        '1:predicate:(base64 chinese email idcard ip phone url)' \
        '*:value'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _belt belt
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: belt completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "belt completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
