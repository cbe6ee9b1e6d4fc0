// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"log/slog"

	"github.com/gogpu/ink"
)

func slogger() *slog.Logger { return ink.Logger() }
