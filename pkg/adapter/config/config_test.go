// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/momeni/clean-rental/pkg/adapter/config"
	"github.com/momeni/clean-rental/pkg/adapter/config/cfg1"
	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleConfig(t *testing.T) {
	c, err := config.Load(filepath.Join("..", "..", "..", "configs", "sample-config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg1.DriverJSONFile, c.Storage.Driver)
	bs, err := c.Usecases.Rentals.Brackets()
	require.NoError(t, err)
	assert.Len(t, bs, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func versions(configVer, dbVer string) []byte {
	return []byte(fmt.Sprintf(
		"versions:\n  config: %s\n  database: %s\n", configVer, dbVer,
	))
}

func TestParseChecksVersions(t *testing.T) {
	_, err := config.Parse(versions("1.0.7", "1.0.0"))
	require.NoError(t, err, "patch versions are not compared")

	cases := []struct {
		configVer, dbVer string
		expected, actual model.SemVer
	}{
		{"2.0.0", "1.0.0", cfg1.Version, model.SemVer{2, 0, 0}},
		{"1.1.0", "1.0.0", cfg1.Version, model.SemVer{1, 1, 0}},
		{"1.0.0", "0.9.0", model.SemVer{1, 0, 0}, model.SemVer{0, 9, 0}},
	}
	for _, c := range cases {
		_, err := config.Parse(versions(c.configVer, c.dbVer))
		var msve *cerr.MismatchingSemVerError
		require.ErrorAs(t, err, &msve)
		assert.Equal(t, c.expected, msve[0])
		assert.Equal(t, c.actual, msve[1])
	}

	_, err = config.Parse([]byte("versions: [\n"))
	assert.Error(t, err)
}
