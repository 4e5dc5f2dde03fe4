// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/momeni/clean-rental/pkg/adapter/db/memory"
	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/momeni/clean-rental/pkg/core/usecase/rentaluc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns the given positions in order, and zero afterwards.
func sequence(positions ...int) rentaluc.RandomSource {
	var mutex sync.Mutex
	return rentaluc.RandomSourceFunc(func(n int) int {
		mutex.Lock()
		defer mutex.Unlock()
		if len(positions) == 0 {
			return 0
		}
		k := positions[0]
		positions = positions[1:]
		return k % n
	})
}

// countingCars records the car IDs which were passed to TryClaim.
type countingCars struct {
	repo.Cars

	mutex sync.Mutex
	tried []string
}

func (cc *countingCars) TryClaim(
	ctx context.Context,
	id string,
	predicate func(model.Car) bool,
	mutation func(*model.Car),
) (model.Car, error) {
	cc.mutex.Lock()
	cc.tried = append(cc.tried, id)
	cc.mutex.Unlock()
	return cc.Cars.TryClaim(ctx, id, predicate, mutation)
}

func newCars(t *testing.T, cars ...model.Car) *countingCars {
	t.Helper()
	c, err := memory.New(repo.CarsName, cars...)
	require.NoError(t, err)
	return &countingCars{Cars: c}
}

func newCar(id string, available bool) model.Car {
	return model.Car{
		ID: id, Name: "car " + id, Available: available, ReleaseYear: 2020,
	}
}

func TestAllocateFollowsRandomSource(t *testing.T) {
	ctx := context.Background()
	cars := newCars(t, newCar("c1", true), newCar("c2", true))
	a := rentaluc.NewAllocator(cars, sequence(1, 0))
	cc := model.CarCategory{ID: "cc1", CarIDs: []string{"c1", "c2"}}

	car, err := a.Allocate(ctx, cc)
	require.NoError(t, err)
	assert.Equal(t, "c2", car.ID)
	assert.False(t, car.Available)
	assert.Equal(t, []string{"c2"}, cars.tried)

	stored, err := cars.Find(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, stored.Available)
}

func TestAllocateRejectsOutOfRangeSource(t *testing.T) {
	cc := model.CarCategory{ID: "cc1", CarIDs: []string{"c1", "c2"}}
	for _, k := range []int{-1, 2, 7} {
		cars := newCars(t, newCar("c1", true), newCar("c2", true))
		a := rentaluc.NewAllocator(cars, rentaluc.RandomSourceFunc(
			func(int) int { return k },
		))
		_, err := a.Allocate(context.Background(), cc)
		require.Error(t, err, "position %d", k)
		assert.Contains(t, err.Error(), "RandomSourceFunc")
		assert.NotErrorIs(t, err, rentaluc.ErrNoAvailableCar)
		assert.Empty(t, cars.tried, "no car may be claimed")
	}
}

func TestAllocateSkipsUnavailableCars(t *testing.T) {
	cars := newCars(t, newCar("c1", true), newCar("c2", false))
	a := rentaluc.NewAllocator(cars, sequence(1, 0))
	cc := model.CarCategory{ID: "cc1", CarIDs: []string{"c1", "c2"}}

	car, err := a.Allocate(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, "c1", car.ID)
	assert.Equal(t, []string{"c2", "c1"}, cars.tried)
}

func TestAllocateTriesEachCarOnce(t *testing.T) {
	cars := newCars(t,
		newCar("c1", false), newCar("c2", false), newCar("c3", false),
	)
	// position 0 repeatedly would pick the same car if tried cars
	// were not excluded from the next attempts
	a := rentaluc.NewAllocator(cars, sequence(0, 0, 0, 0, 0))
	cc := model.CarCategory{ID: "cc1", CarIDs: []string{"c1", "c2", "c3"}}

	_, err := a.Allocate(context.Background(), cc)
	require.ErrorIs(t, err, rentaluc.ErrNoAvailableCar)
	assert.Equal(t, http.StatusConflict, cerr.StatusCode(err))
	assert.ElementsMatch(t, cc.CarIDs, cars.tried)
}

func TestAllocateWithDefaultRandomSource(t *testing.T) {
	cars := newCars(t,
		newCar("c1", false), newCar("c2", true), newCar("c3", false),
	)
	a := rentaluc.NewAllocator(cars, nil)
	cc := model.CarCategory{ID: "cc1", CarIDs: []string{"c1", "c2", "c3"}}

	car, err := a.Allocate(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, "c2", car.ID)
	assert.LessOrEqual(t, len(cars.tried), 3)
}

func TestAllocateEmptyCategory(t *testing.T) {
	cars := newCars(t)
	a := rentaluc.NewAllocator(cars, nil)
	_, err := a.Allocate(
		context.Background(), model.CarCategory{ID: "cc1"},
	)
	assert.ErrorIs(t, err, rentaluc.ErrNoAvailableCar)
	assert.Empty(t, cars.tried)
}

func TestAllocateDanglingCarID(t *testing.T) {
	cars := newCars(t, newCar("c1", true))
	a := rentaluc.NewAllocator(cars, sequence(1))
	cc := model.CarCategory{ID: "cc1", CarIDs: []string{"c1", "c9"}}

	_, err := a.Allocate(context.Background(), cc)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NotErrorIs(t, err, rentaluc.ErrNoAvailableCar)
}

func TestAllocateCanceled(t *testing.T) {
	cars := newCars(t, newCar("c1", true))
	a := rentaluc.NewAllocator(cars, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Allocate(ctx, model.CarCategory{
		ID: "cc1", CarIDs: []string{"c1"},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cars.tried)
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	cars := newCars(t, newCar("c1", false))
	a := rentaluc.NewAllocator(cars, nil)

	require.NoError(t, a.Release(ctx, "c1"))
	car, err := cars.Find(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, car.Available)

	assert.ErrorIs(t, a.Release(ctx, "c1"), repo.ErrConflict)
	assert.ErrorIs(t, a.Release(ctx, "c9"), repo.ErrNotFound)
}
