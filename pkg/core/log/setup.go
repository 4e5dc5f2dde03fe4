// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"fmt"
	"io"
	"log/slog"
)

// SetDefault installs a text handler which writes records of the
// given level (debug, info, warn, or error) and above into w, as the
// default slog logger. All functions of this package log through the
// default logger.
func SetDefault(w io.Writer, level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parsing log level %q: %w", level, err)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: l <= slog.LevelDebug,
		Level:     l,
	})
	slog.SetDefault(slog.New(h))
	return nil
}
