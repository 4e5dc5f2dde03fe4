// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package collectiontest is an internal helper for the test packages.
// It contains the behaviors which are expected from every
// repo.Collection implementation, so each storage adapter can verify
// them against its own backing store by calling Run.
package collectiontest

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// NewStores must return empty and independent collections for each
// call, including a non-nil Transactions collection.
type NewStores func(t *testing.T) *repo.Stores

// Run runs the collection behavior tests as sub-tests of t.
func Run(t *testing.T, newStores NewStores) {
	t.Run("find", func(t *testing.T) { testFind(t, newStores(t)) })
	t.Run("insert", func(t *testing.T) { testInsert(t, newStores(t)) })
	t.Run("claim", func(t *testing.T) { testClaim(t, newStores(t)) })
	t.Run("concurrent claims", func(t *testing.T) {
		testConcurrentClaims(t, newStores(t))
	})
	t.Run("documents", func(t *testing.T) { testDocuments(t, newStores(t)) })
}

func car(id string, available bool) model.Car {
	return model.Car{
		ID:           id,
		Name:         "car " + id,
		Available:    available,
		GasAvailable: true,
		ReleaseYear:  2020,
	}
}

func testFind(t *testing.T, s *repo.Stores) {
	ctx := context.Background()
	all, err := s.Cars.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Cars.Find(ctx, "c1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, cerr.StatusCode(err))

	require.NoError(t, s.Cars.Insert(ctx, car("c1", true)))
	require.NoError(t, s.Cars.Insert(ctx, car("c2", false)))
	c, err := s.Cars.Find(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, car("c2", false), c)

	all, err = s.Cars.FindAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Car{car("c1", true), car("c2", false)}, all)
}

func testInsert(t *testing.T, s *repo.Stores) {
	ctx := context.Background()
	require.NoError(t, s.Cars.Insert(ctx, car("c1", true)))

	err := s.Cars.Insert(ctx, car("c1", false))
	assert.ErrorIs(t, err, repo.ErrDuplicateID)
	c, err := s.Cars.Find(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.Available, "duplicate must not overwrite")

	bad := car("c2", true)
	bad.ReleaseYear = 1500
	err = s.Cars.Insert(ctx, bad)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"releaseYear"}, ve.Fields)
	assert.Equal(t, http.StatusBadRequest, cerr.StatusCode(err))
	_, err = s.Cars.Find(ctx, "c2")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func testClaim(t *testing.T, s *repo.Stores) {
	ctx := context.Background()
	require.NoError(t, s.Cars.Insert(ctx, car("c1", true)))

	c, err := s.Cars.TryClaim(ctx, "c1", model.IsAvailable, model.Claim)
	require.NoError(t, err)
	assert.False(t, c.Available)
	c, err = s.Cars.Find(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, c.Available, "claim must be persisted")

	mutated := false
	_, err = s.Cars.TryClaim(ctx, "c1", model.IsAvailable, func(c *model.Car) {
		mutated = true
	})
	assert.ErrorIs(t, err, repo.ErrConflict)
	assert.Equal(t, http.StatusConflict, cerr.StatusCode(err))
	assert.False(t, mutated, "mutation must not run on conflict")

	c, err = s.Cars.TryClaim(ctx, "c1", model.IsClaimed, model.Release)
	require.NoError(t, err)
	assert.True(t, c.Available)

	_, err = s.Cars.TryClaim(ctx, "c9", model.IsAvailable, model.Claim)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func testConcurrentClaims(t *testing.T, s *repo.Stores) {
	ctx := context.Background()
	require.NoError(t, s.Cars.Insert(ctx, car("c1", true)))
	require.NoError(t, s.Cars.Insert(ctx, car("c2", true)))

	const workers = 8
	var claimed, conflicts atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			_, err := s.Cars.TryClaim(gctx, "c1", model.IsAvailable, model.Claim)
			switch {
			case err == nil:
				claimed.Add(1)
			case errors.Is(err, repo.ErrConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), claimed.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	c, err := s.Cars.Find(ctx, "c2")
	require.NoError(t, err)
	assert.True(t, c.Available, "other records must be kept intact")
}

func testDocuments(t *testing.T, s *repo.Stores) {
	ctx := context.Background()
	cc := model.CarCategory{
		ID:     "cc1",
		Name:   "Sedan",
		CarIDs: []string{"c1", "c2"},
		Price:  decimal.RequireFromString("49.90"),
	}
	require.NoError(t, s.Categories.Insert(ctx, cc))
	got, err := s.Categories.Find(ctx, "cc1")
	require.NoError(t, err)
	assert.Equal(t, cc.CarIDs, got.CarIDs)
	assert.True(t, cc.Price.Equal(got.Price), got.Price.String())

	cust := model.Customer{ID: "u1", Name: "Ana", Age: 30}
	require.NoError(t, s.Customers.Insert(ctx, cust))
	gotCust, err := s.Customers.Find(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cust, gotCust)

	tr := model.Transaction{
		ID:           "t1",
		Customer:     cust,
		Car:          car("c1", false),
		CategoryID:   "cc1",
		NumberOfDays: 2,
		Amount:       decimal.RequireFromString("99.80"),
	}
	require.NoError(t, s.Transactions.Insert(ctx, tr))
	gotTr, err := s.Transactions.Find(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, tr.Car, gotTr.Car)
	assert.True(t, tr.Amount.Equal(gotTr.Amount))
}

// Plant must return new and independent stores whose collections
// contain the given raw JSON documents, keyed by the collection name
// and then the record ID, bypassing the validation of Insert.
type Plant func(t *testing.T, docs map[string]map[string]string) *repo.Stores

// RunInvalid verifies that records which are stored with invalid
// fields are reported as validation errors by all reading operations
// instead of being returned.
func RunInvalid(t *testing.T, plant Plant) {
	ctx := context.Background()
	s := plant(t, map[string]map[string]string{
		repo.CarsName: {
			"c1": `{"id":"c1","name":"Old","available":true,` +
				`"gasAvailable":true,"releaseYear":1200}`,
			"c2": `{"id":"c2","name":"New","available":true,` +
				`"gasAvailable":true,"releaseYear":2020}`,
		},
		repo.CategoriesName: {
			"cc1": `{"id":"cc1","name":"Sedan","carIds":["c2"],"price":"-100"}`,
		},
		repo.CustomersName: {
			"u1": `{"id":"u1","name":"","age":-7}`,
		},
	})
	requireInvalid := func(t *testing.T, err error, fields ...string) {
		t.Helper()
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.ElementsMatch(t, fields, ve.Fields)
		assert.Equal(t, http.StatusBadRequest, cerr.StatusCode(err))
	}

	t.Run("find", func(t *testing.T) {
		_, err := s.Cars.Find(ctx, "c1")
		requireInvalid(t, err, "releaseYear")
		_, err = s.Categories.Find(ctx, "cc1")
		requireInvalid(t, err, "price")
		_, err = s.Customers.Find(ctx, "u1")
		requireInvalid(t, err, "name", "age")

		c, err := s.Cars.Find(ctx, "c2")
		require.NoError(t, err)
		assert.Equal(t, 2020, c.ReleaseYear)
	})
	t.Run("find all", func(t *testing.T) {
		_, err := s.Cars.FindAll(ctx)
		requireInvalid(t, err, "releaseYear")
	})
	t.Run("claim", func(t *testing.T) {
		mutated := false
		_, err := s.Cars.TryClaim(ctx, "c1", model.IsAvailable, func(*model.Car) {
			mutated = true
		})
		requireInvalid(t, err, "releaseYear")
		assert.False(t, mutated, "invalid records must not be mutated")

		c, err := s.Cars.TryClaim(ctx, "c2", model.IsAvailable, model.Claim)
		require.NoError(t, err)
		assert.False(t, c.Available)
	})
}
