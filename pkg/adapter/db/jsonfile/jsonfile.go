// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jsonfile realizes the repo.Collection interface on top of
// JSON files. Each collection is kept in one file which contains a JSON
// array of its records, e.g., the cars collection is kept in cars.json.
//
// The whole file is read on every operation and there is no caching,
// hence, the throughput is bounded by the file size and each write
// rewrites the entire array. This is acceptable for small data sets.
// Writers are serialized by a mutex which is shared by all Collection
// instances of this process that refer to the same file, and the new
// contents are written to a temporary file which is renamed over the
// old one, so readers (which take no lock) always see a complete array.
// Concurrent writers from other processes are not coordinated.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/momeni/clean-rental/pkg/adapter/db/records"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
)

// Ext is the file name extension of the collection files.
const Ext = ".json"

// locks maps absolute file paths to their *sync.Mutex writer locks.
var locks sync.Map

// Collection is a T records collection which is kept in a JSON file.
type Collection[T repo.Record] struct {
	name  string
	path  string
	mutex *sync.Mutex
}

// New instantiates a collection for the name+Ext file in dir. The file
// does not need to exist; a missing file is an empty collection and
// will be created by the first Insert.
func New[T repo.Record](dir, name string) (*Collection[T], error) {
	path, err := filepath.Abs(filepath.Join(dir, name+Ext))
	if err != nil {
		return nil, fmt.Errorf("resolving %q collection path: %w", name, err)
	}
	m, _ := locks.LoadOrStore(path, &sync.Mutex{})
	return &Collection[T]{name: name, path: path, mutex: m.(*sync.Mutex)}, nil
}

// Path returns the absolute path of the collection file.
func (c *Collection[T]) Path() string {
	return c.path
}

// Find reads the collection file and returns the id record.
func (c *Collection[T]) Find(_ context.Context, id string) (T, error) {
	var zero T
	recs, err := c.load()
	if err != nil {
		return zero, err
	}
	if i := records.Index(recs, id); i >= 0 {
		if err = records.Check(c.name, recs[i]); err != nil {
			return zero, err
		}
		return recs[i], nil
	}
	return zero, records.NotFound(c.name, id)
}

// FindAll reads the collection file and returns its records in their
// stored order. It fails if any of them is invalid.
func (c *Collection[T]) FindAll(context.Context) ([]T, error) {
	recs, err := c.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if err = records.Check(c.name, rec); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// TryClaim reads the collection file and if the predicate holds for
// the id record, applies the mutation and writes the whole collection
// back. The read-verify-write cycle is performed while holding the
// writer lock of the file.
func (c *Collection[T]) TryClaim(
	_ context.Context,
	id string,
	predicate func(T) bool,
	mutation func(*T),
) (T, error) {
	var zero T
	c.mutex.Lock()
	defer c.mutex.Unlock()
	recs, err := c.load()
	if err != nil {
		return zero, err
	}
	rec, err := records.Claim(c.name, recs, id, predicate, mutation)
	if err != nil {
		return zero, err
	}
	if err = c.store(recs); err != nil {
		return zero, err
	}
	return rec, nil
}

// Insert appends rec to the collection file while holding its writer
// lock.
func (c *Collection[T]) Insert(_ context.Context, rec T) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	recs, err := c.load()
	if err != nil {
		return err
	}
	if recs, err = records.Append(c.name, recs, rec); err != nil {
		return err
	}
	return c.store(recs)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s collection: %w", c.name, err)
	case len(data) == 0:
		return nil, nil
	}
	var recs []T
	if err = json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", c.path, err)
	}
	return recs, nil
}

// store writes recs into a temporary file in the collection directory
// and renames it over the collection file. The writer lock must be held.
func (c *Collection[T]) store(recs []T) (err error) {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s collection: %w", c.name, err)
	}
	dir := filepath.Dir(c.path)
	f, err := os.CreateTemp(dir, "."+c.name+"-*"+Ext)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %q: %w", f.Name(), err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", f.Name(), err)
	}
	if err = os.Rename(f.Name(), c.path); err != nil {
		return fmt.Errorf("renaming %q: %w", f.Name(), err)
	}
	return nil
}

// NewStores instantiates the rentals collections in dir. When withTx
// is false, the returned Transactions field is left nil.
func NewStores(dir string, withTx bool) (*repo.Stores, error) {
	cars, err := New[model.Car](dir, repo.CarsName)
	if err != nil {
		return nil, err
	}
	ccs, err := New[model.CarCategory](dir, repo.CategoriesName)
	if err != nil {
		return nil, err
	}
	cs, err := New[model.Customer](dir, repo.CustomersName)
	if err != nil {
		return nil, err
	}
	s := &repo.Stores{Cars: cars, Categories: ccs, Customers: cs}
	if withTx {
		txs, err := New[model.Transaction](dir, repo.TransactionsName)
		if err != nil {
			return nil, err
		}
		s.Transactions = txs
	}
	return s, nil
}
