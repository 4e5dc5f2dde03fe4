// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the repository interfaces which are consumed
// by the use cases layer and realized by the adapters layer. Entities
// are kept in named collections which may be backed by JSON files,
// a PostgreSQL database, a redis server, or the process memory.
package repo

import (
	"context"
	"errors"

	"github.com/momeni/clean-rental/pkg/core/model"
)

// These errors are wrapped (and classified by the cerr package) by all
// Collection implementations, so callers may detect them using the
// errors.Is function.
var (
	// ErrNotFound indicates that no record has the asked ID.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates that a TryClaim predicate did not hold
	// on the just loaded state of a record, so nothing was written.
	ErrConflict = errors.New("claim predicate does not hold")

	// ErrDuplicateID indicates that Insert found an existing record
	// with the same ID.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is the expected interface of the entities which may be kept
// in a Collection.
type Record interface {
	// RecordID returns the stable unique identifier of a record.
	RecordID() string

	// Validate returns a *model.ValidationError if the record may
	// not be persisted.
	Validate() error
}

// Collection is a generic repository over one named collection of T
// records. Implementations read their backing store on every operation
// (no caching), hence, results are consistent as of the last write.
//
// All methods are safe for concurrent use. The TryClaim method is the
// only way to change an existing record and its read-verify-write
// cycle is indivisible with respect to other TryClaim and Insert
// calls on the same collection, even if they use other Collection
// instances over the same backing store.
type Collection[T Record] interface {
	// Find returns the record with the given id or an error wrapping
	// ErrNotFound.
	Find(ctx context.Context, id string) (T, error)

	// FindAll returns all records of the collection.
	FindAll(ctx context.Context) ([]T, error)

	// TryClaim loads the id record, evaluates predicate on it, and
	// only if it holds, applies mutation and persists the collection.
	// The mutated record is returned. If predicate fails, an error
	// wrapping ErrConflict is returned and nothing is written.
	TryClaim(
		ctx context.Context,
		id string,
		predicate func(T) bool,
		mutation func(*T),
	) (T, error)

	// Insert validates and appends rec to the collection. An error
	// wrapping ErrDuplicateID is returned if its ID is already taken.
	Insert(ctx context.Context, rec T) error
}

// These aliases name the collections which are used by the rentals
// use cases.
type (
	Cars         = Collection[model.Car]
	Categories   = Collection[model.CarCategory]
	Customers    = Collection[model.Customer]
	Transactions = Collection[model.Transaction]
)

// Collection names which are shared by all storage adapters. The
// jsonfile adapter appends a .json suffix in order to obtain the
// file names.
const (
	CarsName         = "cars"
	CategoriesName   = "carCategories"
	CustomersName    = "customers"
	TransactionsName = "transactions"
)

// Stores bundles the collections which are required by the rentals
// use case. Transactions may be nil if issued transactions should not
// be persisted.
type Stores struct {
	Cars         Cars
	Categories   Categories
	Customers    Customers
	Transactions Transactions
}
