//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/ink"
)

// slogger returns the current package logger.
// All logging in internal/gpu goes through this function so it follows
// ink.SetLogger without any propagation step.
func slogger() *slog.Logger { return ink.Logger() }
