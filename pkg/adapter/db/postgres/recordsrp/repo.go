// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package recordsrp realizes the repo.Collection interface on top of
// a PostgreSQL database. All collections share the records table and
// each record is stored as a JSONB document (see postgres.CreateSchema).
package recordsrp

import (
	"context"

	"github.com/momeni/clean-rental/pkg/adapter/db/postgres"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
)

// Repo is a collection of T records which acquires a connection from
// its pool for each operation.
type Repo[T repo.Record] struct {
	pool repo.Pool
	coll string
}

// New instantiates the coll collection over the p connections pool.
func New[T repo.Record](p repo.Pool, coll string) *Repo[T] {
	return &Repo[T]{pool: p, coll: coll}
}

func (r *Repo[T]) Find(ctx context.Context, id string) (rec T, err error) {
	err = r.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rec, err = Find[T](ctx, c.(*postgres.Conn), r.coll, id)
		return err
	})
	return
}

func (r *Repo[T]) FindAll(ctx context.Context) (recs []T, err error) {
	err = r.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		recs, err = FindAll[T](ctx, c.(*postgres.Conn), r.coll)
		return err
	})
	return
}

// TryClaim runs the claim query in a fresh transaction. A failed
// predicate rolls the transaction back, so nothing is written.
func (r *Repo[T]) TryClaim(
	ctx context.Context,
	id string,
	predicate func(T) bool,
	mutation func(*T),
) (rec T, err error) {
	err = r.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			rec, err = TryClaim(
				ctx, tx.(*postgres.Tx), r.coll, id, predicate, mutation,
			)
			return err
		})
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (r *Repo[T]) Insert(ctx context.Context, rec T) error {
	return r.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return Insert(ctx, c.(*postgres.Conn), r.coll, rec)
	})
}

// NewStores instantiates the rentals collections over the p pool.
// When withTx is false, the returned Transactions field is left nil.
func NewStores(p repo.Pool, withTx bool) *repo.Stores {
	s := &repo.Stores{
		Cars:       New[model.Car](p, repo.CarsName),
		Categories: New[model.CarCategory](p, repo.CategoriesName),
		Customers:  New[model.Customer](p, repo.CustomersName),
	}
	if withTx {
		s.Transactions = New[model.Transaction](p, repo.TransactionsName)
	}
	return s
}
