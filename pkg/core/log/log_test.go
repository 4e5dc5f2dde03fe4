// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})
	ctx := context.Background()
	buf := &bytes.Buffer{}
	require.NoError(t, log.SetDefault(buf, "warn"))

	log.Info(ctx, "car is rented")
	assert.Empty(t, buf.String(), "info must be filtered")

	log.Warn(
		ctx, "max days is adjusted",
		slog.Int("value", 400),
		log.Stringer("amount", decimal.RequireFromString("12.50")),
		log.Err("err", errors.New("boom")),
		log.Err("cause", nil),
	)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="max days is adjusted"`)
	assert.Contains(t, out, "value=400")
	assert.Contains(t, out, "amount=12.5")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "cause=no-error")

	buf.Reset()
	require.NoError(t, log.SetDefault(buf, "debug"))
	log.Debug(ctx, "car is claimed")
	assert.Contains(t, buf.String(), "log_test.go", "debug adds the caller")

	assert.Error(t, log.SetDefault(buf, "verbose"))
}
