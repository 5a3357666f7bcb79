// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/beltgo/internal/is"
)

// Emit writes a single value in the --output format. It is used for results
// that are not record sets: flattened arrays, merged documents, stored values
// and scalars. In text mode arrays print one element per line and objects
// print as YAML.
func Emit(value any, cmd *cli.Command, w io.Writer) error {
	switch cmd.String("output") {
	case "json":
		return writeJSON(value, w)
	case "yaml":
		b, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "raw":
		if s, ok := value.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		return writeJSON(value, w)
	}

	switch is.KindOf(value) {
	case is.KindArray:
		items, _ := value.([]any)
		for _, item := range items {
			if _, err := fmt.Fprintln(w, InterfaceToString(item)); err != nil {
				return err
			}
		}
		return nil
	case is.KindObject:
		b, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case is.KindNull:
		_, err := fmt.Fprintln(w, "null")
		return err
	}

	_, err := fmt.Fprintln(w, InterfaceToString(value))
	return err
}

func writeJSON(value any, w io.Writer) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
