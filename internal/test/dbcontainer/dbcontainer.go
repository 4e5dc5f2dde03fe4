// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// It starts a disposable PostgreSQL container, prepares the records
// table in it, and returns a connections pool. Tests are skipped when
// no container runtime is available.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/clean-rental/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/require"
)

// DBMSVersion is the tag of the started postgres docker image.
const DBMSVersion = "16"

// New starts a database and returns a pool which is connected to it.
// The pool is closed and the container is shut down when t finishes.
func New(t *testing.T, timeout time.Duration) *postgres.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(ctx, DBMSVersion)
	if err != nil {
		t.Skipf("cannot start a postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pg.Shutdown(context.Background()); err != nil {
			t.Errorf("shutting down test database: %v", err)
		}
	})
	pool := connect(ctx, t, pg.ConnectionString())
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("closing the connections pool: %v", err)
		}
	})
	require.NoError(t, postgres.CreateSchema(ctx, pool))
	return pool
}

func connect(ctx context.Context, t *testing.T, url string) *postgres.Pool {
	for {
		pool, err := postgres.NewPool(ctx, url)
		if err == nil {
			return pool
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		require.NoError(t, err, "cannot connect to test database")
	}
}
