// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers parses the versions section of a configuration file.
// Two versions are kept there: the configuration file format version
// and the version of the records table layout of the postgres driver.
// Versions are read before the remaining settings, so an incompatible
// file is reported as such instead of as a list of unknown fields.
package vers

import (
	"fmt"

	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config is embedded (inline) by the versioned config structs.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions of the configuration file and the database schema.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Marshalled replaces the model.SemVer fields of Config by strings.
// The yaml.Marshaler interface is only consulted for the top level
// value, so nested structs contribute their Marshalled forms instead.
type Marshalled struct {
	Versions struct {
		Database string
		Config   string
	}
}

// Marshal returns the Marshalled form of vc.
func (vc *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Versions.Database = vc.Versions.Database.Marshal()
	m.Versions.Config = vc.Versions.Config.Marshal()
	return m
}

// Load parses the versions section of data, ignoring other fields.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, fmt.Errorf("unmarshalling versions: %w", err)
	}
	return vc, nil
}

// CheckConfig returns a *cerr.MismatchingSemVerError unless the
// configuration file version is compatible with supported.
func (vc *Config) CheckConfig(supported model.SemVer) error {
	return Expect(supported, vc.Versions.Config)
}

// CheckDatabase is like CheckConfig for the database schema version.
func (vc *Config) CheckDatabase(supported model.SemVer) error {
	return Expect(supported, vc.Versions.Database)
}

// Expect returns a *cerr.MismatchingSemVerError if actual has another
// major version or a newer minor version than supported. Patch
// versions are not compared.
func Expect(supported, actual model.SemVer) error {
	if supported[0] != actual[0] || supported[1] < actual[1] {
		return &cerr.MismatchingSemVerError{supported, actual}
	}
	return nil
}
