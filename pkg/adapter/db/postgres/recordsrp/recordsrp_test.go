// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package recordsrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-rental/internal/test/collectiontest"
	"github.com/momeni/clean-rental/internal/test/dbcontainer"
	"github.com/momeni/clean-rental/pkg/adapter/db/postgres"
	"github.com/momeni/clean-rental/pkg/adapter/db/postgres/recordsrp"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RecordsRepoTestSuite struct {
	suite.Suite

	pool *postgres.Pool
}

func TestRecordsRepoTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database tests in short mode")
	}
	suite.Run(t, new(RecordsRepoTestSuite))
}

func (rts *RecordsRepoTestSuite) SetupSuite() {
	rts.pool = dbcontainer.New(rts.T(), 2*time.Minute)
}

// collections are kept apart by a unique name per sub-test, since all
// of them share a single records table.
func (rts *RecordsRepoTestSuite) newStores(*testing.T) *repo.Stores {
	return rts.storesWithPrefix(uuid.NewString() + "/")
}

func (rts *RecordsRepoTestSuite) storesWithPrefix(p string) *repo.Stores {
	return &repo.Stores{
		Cars:         recordsrp.New[model.Car](rts.pool, p+repo.CarsName),
		Categories:   recordsrp.New[model.CarCategory](rts.pool, p+repo.CategoriesName),
		Customers:    recordsrp.New[model.Customer](rts.pool, p+repo.CustomersName),
		Transactions: recordsrp.New[model.Transaction](rts.pool, p+repo.TransactionsName),
	}
}

func (rts *RecordsRepoTestSuite) TestCollection() {
	collectiontest.Run(rts.T(), rts.newStores)
}

// plant inserts docs into the records table directly, so they are not
// validated by Insert.
func (rts *RecordsRepoTestSuite) plant(
	t *testing.T, docs map[string]map[string]string,
) *repo.Stores {
	p := uuid.NewString() + "/"
	ctx := context.Background()
	err := rts.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		for coll, recs := range docs {
			for id, doc := range recs {
				_, err := c.Exec(ctx,
					"INSERT INTO records(collection, id, doc) VALUES ($1, $2, $3::jsonb)",
					p+coll, id, doc,
				)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	require.NoError(t, err)
	return rts.storesWithPrefix(p)
}

func (rts *RecordsRepoTestSuite) TestInvalidRecords() {
	collectiontest.RunInvalid(rts.T(), rts.plant)
}

func (rts *RecordsRepoTestSuite) TestCreateSchemaIsIdempotent() {
	ctx := context.Background()
	rts.Require().NoError(postgres.CreateSchema(ctx, rts.pool))
	rts.Require().NoError(postgres.CreateSchema(ctx, rts.pool))
}

func (rts *RecordsRepoTestSuite) TestDocumentIsJSONB() {
	t := rts.T()
	ctx := context.Background()
	s := recordsrp.NewStores(rts.pool, false)
	require.Nil(t, s.Transactions)
	id := uuid.NewString()
	require.NoError(t, s.Customers.Insert(ctx, model.Customer{
		ID: id, Name: "Ana", Age: 30,
	}))
	err := rts.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err := c.Query(ctx,
			"SELECT doc->>'age' FROM records WHERE collection=$1 AND id=$2",
			repo.CustomersName, id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		require.True(t, rows.Next())
		vals, err := rows.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{"30"}, vals)
		return rows.Err()
	})
	require.NoError(t, err)
}
