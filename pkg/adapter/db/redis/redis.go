// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package redis realizes the repo.Collection interface on top of a
// redis server. Each collection is kept in one hash which maps record
// IDs to their JSON documents. Claims are performed optimistically by
// WATCHing the hash and updating it in a MULTI/EXEC transaction.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/momeni/clean-rental/pkg/adapter/db/records"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/redis/go-redis/v9"
)

// MaxWatchRetries bounds the number of times that TryClaim retries
// a transaction which was aborted because the hash was changed by
// another client (possibly for another record) after it was watched.
// When retries are exhausted, TryClaim reports a conflict.
const MaxWatchRetries = 16

// Collection is a T records collection which is kept in a redis hash.
type Collection[T repo.Record] struct {
	client redis.UniversalClient
	name   string
	key    string
}

// New instantiates the name collection which is kept in the prefix+name
// hash key.
func New[T repo.Record](
	client redis.UniversalClient, prefix, name string,
) *Collection[T] {
	return &Collection[T]{client: client, name: name, key: prefix + name}
}

func (c *Collection[T]) decode(id, doc string) (T, error) {
	return records.Decode[T](c.name, id, []byte(doc))
}

// Find returns the id record.
func (c *Collection[T]) Find(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.client.HGet(ctx, c.key, id).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return zero, records.NotFound(c.name, id)
	case err != nil:
		return zero, fmt.Errorf("HGET %s %s: %w", c.key, id, err)
	}
	return c.decode(id, doc)
}

// FindAll returns all records sorted by their IDs.
func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	docs, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("HGETALL %s: %w", c.key, err)
	}
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	recs := make([]T, 0, len(ids))
	for _, id := range ids {
		rec, err := c.decode(id, docs[id])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// TryClaim watches the collection hash, evaluates predicate on the id
// record, and writes the mutated record in a transaction which fails
// if the hash was modified concurrently. Such failed transactions are
// retried up to MaxWatchRetries times.
func (c *Collection[T]) TryClaim(
	ctx context.Context,
	id string,
	predicate func(T) bool,
	mutation func(*T),
) (T, error) {
	var rec T
	claim := func(tx *redis.Tx) error {
		doc, err := tx.HGet(ctx, c.key, id).Result()
		switch {
		case errors.Is(err, redis.Nil):
			return records.NotFound(c.name, id)
		case err != nil:
			return fmt.Errorf("HGET %s %s: %w", c.key, id, err)
		}
		if rec, err = c.decode(id, doc); err != nil {
			return err
		}
		if !predicate(rec) {
			return records.Conflict(c.name, id)
		}
		mutation(&rec)
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s %q: %w", c.name, id, err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, c.key, id, string(b))
			return nil
		})
		return err
	}
	for i := 0; i < MaxWatchRetries; i++ {
		err := c.client.Watch(ctx, claim, c.key)
		switch {
		case err == nil:
			return rec, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			var zero T
			return zero, err
		}
	}
	var zero T
	return zero, records.Conflict(c.name, id)
}

// Insert validates rec and stores it unless its ID is taken.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	if err := records.Check(c.name, rec); err != nil {
		return err
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s %q: %w", c.name, rec.RecordID(), err)
	}
	ok, err := c.client.HSetNX(ctx, c.key, rec.RecordID(), string(b)).Result()
	switch {
	case err != nil:
		return fmt.Errorf("HSETNX %s %s: %w", c.key, rec.RecordID(), err)
	case !ok:
		return records.Duplicate(c.name, rec.RecordID())
	}
	return nil
}

// NewStores instantiates the rentals collections with the given keys
// prefix. When withTx is false, the Transactions field is left nil.
func NewStores(
	client redis.UniversalClient, prefix string, withTx bool,
) *repo.Stores {
	s := &repo.Stores{
		Cars:       New[model.Car](client, prefix, repo.CarsName),
		Categories: New[model.CarCategory](client, prefix, repo.CategoriesName),
		Customers:  New[model.Customer](client, prefix, repo.CustomersName),
	}
	if withTx {
		s.Transactions = New[model.Transaction](
			client, prefix, repo.TransactionsName,
		)
	}
	return s
}
