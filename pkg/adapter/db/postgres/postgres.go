// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres adapts GORM (with the pgx driver) to the repo.Pool,
// repo.Conn, and repo.Tx interfaces, so repository packages (such as
// recordsrp) can run their queries on a PostgreSQL database.
package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}

// schemaSQL creates the records table which keeps all collections.
// Each record is a JSON document, having the same format as the items
// of the jsonfile collections, keyed by its collection name and ID.
const schemaSQL = `CREATE TABLE IF NOT EXISTS records (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    doc JSONB NOT NULL,
    PRIMARY KEY (collection, id)
)`

// CreateSchema creates the required tables (if they do not exist).
func CreateSchema(ctx context.Context, p repo.Pool) error {
	return p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := c.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("creating records table: %w", err)
		}
		return nil
	})
}
