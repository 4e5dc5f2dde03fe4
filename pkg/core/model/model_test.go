// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"
	"time"

	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFields(t *testing.T, err error, fields ...string) {
	t.Helper()
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, fields, ve.Fields)
}

func TestCar(t *testing.T) {
	c := model.Car{ID: "c1", Name: "Golf", Available: true, ReleaseYear: 2020}
	got, err := model.NewCar(c)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, "c1", c.RecordID())

	model.Claim(&c)
	assert.False(t, model.IsAvailable(c))
	assert.True(t, model.IsClaimed(c))
	model.Release(&c)
	assert.True(t, model.IsAvailable(c))

	_, err = model.NewCar(model.Car{ReleaseYear: model.FirstReleaseYear - 1})
	assertFields(t, err, "id", "name", "releaseYear")
	_, err = model.NewCar(model.Car{
		ID: "c1", Name: "Golf", ReleaseYear: time.Now().Year() + 2,
	})
	assertFields(t, err, "releaseYear")
	_, err = model.NewCar(model.Car{
		ID: "c1", Name: "Benz", ReleaseYear: model.FirstReleaseYear,
	})
	assert.NoError(t, err)
}

func TestCarCategory(t *testing.T) {
	cc := model.CarCategory{
		ID: "cc1", Name: "Sedan", CarIDs: []string{"c1"},
		Price: decimal.RequireFromString("0.01"),
	}
	_, err := model.NewCarCategory(cc)
	require.NoError(t, err)

	cc.Price = decimal.Zero
	cc.CarIDs = []string{"c1", ""}
	_, err = model.NewCarCategory(cc)
	assertFields(t, err, "carIds[1]", "price")

	cc = model.CarCategory{ID: "cc2", Name: "Empty", Price: decimal.NewFromInt(5)}
	assert.NoError(t, cc.Validate())
}

func TestCustomer(t *testing.T) {
	_, err := model.NewCustomer(model.Customer{ID: "u1", Name: "Ana", Age: 0})
	require.NoError(t, err)
	_, err = model.NewCustomer(model.Customer{ID: "u1", Name: "Ana", Age: -1})
	assertFields(t, err, "age")
}

func TestTransaction(t *testing.T) {
	tr := model.Transaction{
		ID:           "t1",
		Customer:     model.Customer{ID: "u1", Name: "Ana", Age: 20},
		Car:          model.Car{ID: "c1", Name: "Golf", ReleaseYear: 2020},
		CategoryID:   "cc1",
		NumberOfDays: 1,
		Amount:       decimal.NewFromInt(10),
	}
	require.NoError(t, tr.Validate())
	assert.Equal(t, "t1", tr.RecordID())

	tr.NumberOfDays = 0
	tr.Amount = decimal.NewFromInt(-1)
	tr.Customer.Age = -3
	err := tr.Validate()
	assertFields(t, err, "numberOfDays", "amount", "customer.age")
	assert.Contains(t, err.Error(), "numberOfDays")
}

func TestSemVer(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.2.3")))
	assert.Equal(t, model.SemVer{1, 2, 3}, sv)
	assert.Equal(t, "1.2.3", sv.String())
	require.NoError(t, sv.UnmarshalText([]byte("4")))
	assert.Equal(t, "4.0.0", sv.String())

	assert.Error(t, sv.UnmarshalText([]byte("1.x")))
	assert.Error(t, sv.UnmarshalText([]byte("1.-2")))
	assert.Error(t, sv.UnmarshalText([]byte("1.2.3.4")))
}
