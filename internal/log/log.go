// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "BELT_LOG"

// InitLogger sets up Apex with a custom handler and a log level from the
// BELT_LOG env variable. Unknown levels fall back to ERROR.
func InitLogger() {
	level := strings.ToUpper(os.Getenv(EnvLevel))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{})
	if l, err := log.ParseLevel(level); err != nil {
		log.SetLevel(log.ErrorLevel)
	} else {
		log.SetLevel(l)
	}
}

// CustomHandler formats log messages and writes them to W, or stderr when W
// is nil. stdout is reserved for command output.
type CustomHandler struct {
	W   io.Writer
	Now func() time.Time
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.W
	if w == nil {
		w = os.Stderr
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	timestamp := now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var fields strings.Builder
	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&fields, " %s=%v", name, e.Fields.Get(name))
	}

	_, err := fmt.Fprintf(w, "%s %.1s %s%s\n", timestamp, level, e.Message, fields.String())
	return err
}
