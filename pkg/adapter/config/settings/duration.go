// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is written in configuration files
// in the time.ParseDuration format, e.g., 30s or 1h30m.
type Duration time.Duration

// UnmarshalText parses data with time.ParseDuration.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// Marshal formats d like time.Duration.String, but drops the zero
// trailing units, so 1h30m0s is written as 1h30m and 2h0m0s as 2h.
// A nil d gives nil, so optional settings stay absent after Marshal.
func (d *Duration) Marshal() *string {
	if d == nil {
		return nil
	}
	s := time.Duration(*d).String()
	s, trimmed := strings.CutSuffix(s, "m0s")
	if trimmed {
		s += "m"
	}
	if h, ok := strings.CutSuffix(s, "h0m"); ok {
		s = h + "h"
	}
	return &s
}

// MarshalText is used for the JSON encoding of d.
func (d *Duration) MarshalText() ([]byte, error) {
	if s := d.Marshal(); s != nil {
		return []byte(*s), nil
	}
	return nil, errors.New("nil duration")
}

// LogValue logs d as a duration, or "nil-duration" if it is not set.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
