// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"log/slog"

	"github.com/gogpu/ink"
)

// slogger returns the shared ink logger.
func slogger() *slog.Logger { return ink.Logger() }
