// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"testing"
	"time"

	"github.com/momeni/clean-rental/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](t T) *T {
	return &t
}

func TestVerifyRange(t *testing.T) {
	v := ptr(400)
	err := settings.VerifyRange(&v, ptr(1), ptr(365))
	require.NotNil(t, err)
	assert.False(t, err.LessThanMin)
	assert.Equal(t, 400, *err.Value)
	assert.Equal(t, 365, *v)

	v = ptr(0)
	err = settings.VerifyRange(&v, ptr(1), nil)
	require.NotNil(t, err)
	assert.True(t, err.LessThanMin)
	assert.Equal(t, 1, *v)

	v = ptr(30)
	assert.Nil(t, settings.VerifyRange(&v, ptr(1), ptr(365)))
	assert.Equal(t, 30, *v)

	var unset *int
	assert.Nil(t, settings.VerifyRange(&unset, ptr(1), ptr(365)))
	assert.Nil(t, unset)

	err = settings.VerifyRange(&v, ptr(10), ptr(2))
	require.NotNil(t, err)
	assert.True(t, err.InvalidRange)
	assert.Equal(t, 30, *v)
}

func TestDurationMarshal(t *testing.T) {
	for d, expected := range map[time.Duration]string{
		30 * time.Second:        "30s",
		time.Minute:             "1m",
		90 * time.Minute:        "1h30m",
		2 * time.Hour:           "2h",
		time.Hour + time.Second: "1h0m1s",
	} {
		sd := settings.Duration(d)
		assert.Equal(t, expected, *sd.Marshal())
	}
	var nilDuration *settings.Duration
	assert.Nil(t, nilDuration.Marshal())
	_, err := nilDuration.MarshalText()
	assert.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, 90*time.Minute, time.Duration(d))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, 90*time.Minute, time.Duration(d))
}

func TestOverwriteNil(t *testing.T) {
	var places *int32
	settings.OverwriteNil(&places, ptr(int32(2)))
	require.NotNil(t, places)
	assert.Equal(t, int32(2), *places)
	settings.OverwriteNil(&places, ptr(int32(4)))
	assert.Equal(t, int32(2), *places)

	var logger *bool
	settings.Nil2Zero(&logger)
	require.NotNil(t, logger)
	assert.False(t, *logger)
}
