// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
	"golang.org/x/term"
)

// Diff renders the changes from left to right as an annotated JSON document.
// It returns "" when the documents are equal.
func Diff(left, right map[string]interface{}, color bool) (string, error) {
	d := gojsondiff.New().CompareObjects(left, right)
	if !d.Modified() {
		return "", nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	out, err := f.Format(d)
	if err != nil {
		return "", fmt.Errorf("failed to format diff: %w", err)
	}
	return out, nil
}

// IsTerminal reports whether w is a terminal. It is the default for --color.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
