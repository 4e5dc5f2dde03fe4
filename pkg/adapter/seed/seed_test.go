// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package seed_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/momeni/clean-rental/pkg/adapter/db/memory"
	"github.com/momeni/clean-rental/pkg/adapter/seed"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T) *seed.Result {
	t.Helper()
	rnd := rand.New(rand.NewPCG(1, 2))
	res, err := seed.Generate(rnd, seed.Options{
		Categories: 3, CarsPerCategory: 4, Customers: 5,
	})
	require.NoError(t, err)
	return res
}

func TestGenerate(t *testing.T) {
	res := generate(t)
	require.Len(t, res.Categories, 3)
	require.Len(t, res.Cars, 12)
	require.Len(t, res.Customers, 5)

	cars := make(map[string]bool)
	for _, car := range res.Cars {
		assert.True(t, car.Available)
		assert.NoError(t, car.Validate())
		cars[car.ID] = true
	}
	owned := make(map[string]bool)
	for _, cc := range res.Categories {
		assert.Len(t, cc.CarIDs, 4)
		assert.True(t, cc.Price.GreaterThanOrEqual(decimal.NewFromInt(20)))
		assert.True(t, cc.Price.LessThanOrEqual(decimal.NewFromInt(100)))
		for _, id := range cc.CarIDs {
			assert.True(t, cars[id], "car %q does not exist", id)
			assert.False(t, owned[id], "car %q is in two categories", id)
			owned[id] = true
		}
	}
	for _, c := range res.Customers {
		assert.GreaterOrEqual(t, c.Age, 18)
		assert.NoError(t, c.Validate())
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	res := generate(t)
	s := memory.NewStores(false)
	require.NoError(t, seed.Store(ctx, s, res))

	ccs, err := s.Categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Categories, ccs)
	for _, id := range ccs[0].CarIDs {
		_, err := s.Cars.Find(ctx, id)
		assert.NoError(t, err)
	}

	err = seed.Store(ctx, s, res)
	assert.ErrorIs(t, err, repo.ErrDuplicateID)
}
