// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/beltgo/internal/attrs"
	"github.com/staranto/beltgo/internal/filters"
	"github.com/staranto/beltgo/internal/storage"
)

// GlobalFlagsValidator rejects --attrs and --filter specs that cannot be
// parsed before any input is read.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if spec := c.String("attrs"); spec != "" {
		var al attrs.AttrList
		if err := al.Set(spec); err != nil {
			return fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	if _, err := filters.Parse(c.String("filter")); err != nil {
		return fmt.Errorf("invalid --filter: %w", err)
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func NotEmptyValidator(value any) error {
	if strings.TrimSpace(value.(string)) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, "text", "json", "raw", "yaml")
}

func ScopeValidator(value any) error {
	_, err := storage.ParseScope(value.(string))
	return err
}

func EngineValidator(value any) error {
	return oneOf(value, storage.EngineFile, storage.EnginePebble)
}

func oneOf(value any, valid ...string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
