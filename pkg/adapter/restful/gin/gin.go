// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine construction, so other
// adapters (e.g., the config package) may create an engine and its
// middlewares without depending on gin-gonic directly. Requests are
// logged and panics are recovered through the default slog logger.
package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog/logger"
	"github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs each request using the
// default slog logger (at the time of calling Logger).
func Logger() HandlerFunc {
	return logger.New(slog.Default())
}

// Recovery returns a middleware which recovers from panics, logs
// them using the default slog logger, and responds with a 500 status.
func Recovery() HandlerFunc {
	return recovery.New(slog.Default())
}
