// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"
	"io"

	"github.com/staranto/beltgo/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string

	// Stdin and Stdout are where commands read input and write results.
	Stdin  io.Reader
	Stdout io.Writer
}
