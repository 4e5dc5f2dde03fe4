// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory_test

import (
	"testing"

	"github.com/momeni/clean-rental/internal/test/collectiontest"
	"github.com/momeni/clean-rental/pkg/adapter/db/memory"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection(t *testing.T) {
	collectiontest.Run(t, func(*testing.T) *repo.Stores {
		return memory.NewStores(true)
	})
}

func TestNewRejectsDuplicates(t *testing.T) {
	c1 := model.Car{ID: "c1", Name: "Pride", ReleaseYear: 2001}
	_, err := memory.New(repo.CarsName, c1, c1)
	assert.ErrorIs(t, err, repo.ErrDuplicateID)

	cars, err := memory.New(repo.CarsName, c1)
	require.NoError(t, err)
	all, err := cars.FindAll(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []model.Car{c1}, all)
}

func TestStoresWithoutTransactions(t *testing.T) {
	s := memory.NewStores(false)
	assert.Nil(t, s.Transactions)
	assert.NotNil(t, s.Cars)
}
