// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory realizes the repo.Collection interface on top of the
// process memory. It is useful for tests and demos where persistence
// is not desired.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/momeni/clean-rental/pkg/adapter/db/records"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
)

// Collection keeps T records in a slice which is guarded by a mutex.
// Returned records are shallow copies, so their nested slices must be
// treated as read-only.
type Collection[T repo.Record] struct {
	name string

	mutex sync.Mutex
	recs  []T
}

// New instantiates a named collection having the initial recs. The
// recs are validated and must have unique IDs.
func New[T repo.Record](name string, recs ...T) (*Collection[T], error) {
	c := &Collection[T]{name: name}
	var err error
	for _, r := range recs {
		if c.recs, err = records.Append(name, c.recs, r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Find returns the id record.
func (c *Collection[T]) Find(_ context.Context, id string) (T, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if i := records.Index(c.recs, id); i >= 0 {
		return c.recs[i], nil
	}
	var zero T
	return zero, records.NotFound(c.name, id)
}

// FindAll returns all records in their insertion order.
func (c *Collection[T]) FindAll(context.Context) ([]T, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return slices.Clone(c.recs), nil
}

// TryClaim evaluates predicate and applies mutation while holding the
// collection mutex.
func (c *Collection[T]) TryClaim(
	_ context.Context,
	id string,
	predicate func(T) bool,
	mutation func(*T),
) (T, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return records.Claim(c.name, c.recs, id, predicate, mutation)
}

// Insert appends rec.
func (c *Collection[T]) Insert(_ context.Context, rec T) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	recs, err := records.Append(c.name, c.recs, rec)
	if err != nil {
		return err
	}
	c.recs = recs
	return nil
}

// NewStores instantiates empty rentals collections in memory. When
// withTx is false, the returned Transactions field is left nil.
func NewStores(withTx bool) *repo.Stores {
	s := &repo.Stores{
		Cars:       &Collection[model.Car]{name: repo.CarsName},
		Categories: &Collection[model.CarCategory]{name: repo.CategoriesName},
		Customers:  &Collection[model.Customer]{name: repo.CustomersName},
	}
	if withTx {
		s.Transactions = &Collection[model.Transaction]{
			name: repo.TransactionsName,
		}
	}
	return s
}
