// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
)

// ErrNoAvailableCar indicates that no car of a category could be
// claimed, either because the category has no cars or all of them
// were unavailable (or claimed concurrently) during the allocation.
// Callers may offer an alternative category in response.
var ErrNoAvailableCar = errors.New("no available car")

// RandomSource provides the random positions which are used by the
// Allocator. IntN must return a number in [0, n) for a positive n.
// The *rand.Rand type of math/rand/v2 implements this interface, but
// it is not safe for concurrent use.
type RandomSource interface {
	IntN(n int) int
}

// RandomSourceFunc adapts a function to the RandomSource interface.
type RandomSourceFunc func(n int) int

// IntN calls f(n).
func (f RandomSourceFunc) IntN(n int) int {
	return f(n)
}

// DefaultRandomSource uses the goroutine-safe top-level generator of
// the math/rand/v2 package.
var DefaultRandomSource RandomSource = RandomSourceFunc(rand.IntN)

// Allocator claims one available car from a category. Cars are tried
// in a random order and each car is tried at most once, so allocation
// takes at most len(category.CarIDs) attempts.
type Allocator struct {
	cars repo.Cars
	rnd  RandomSource
}

// NewAllocator instantiates an Allocator which resolves and claims
// cars through the given repository. A nil rnd selects the
// DefaultRandomSource.
func NewAllocator(cars repo.Cars, rnd RandomSource) *Allocator {
	if rnd == nil {
		rnd = DefaultRandomSource
	}
	return &Allocator{cars: cars, rnd: rnd}
}

// Allocate claims and returns one available car of cc category. The
// returned car reflects the claimed state (i.e., it is unavailable).
// If all cars were tried without success, an error wrapping
// ErrNoAvailableCar is returned. Conflicts are consumed by retrying
// with another car, while other repository errors (including a car ID
// which does not resolve to a car) are returned after wrapping.
func (a *Allocator) Allocate(
	ctx context.Context, cc model.CarCategory,
) (model.Car, error) {
	n := len(cc.CarIDs)
	untried := make([]int, n)
	for i := range untried {
		untried[i] = i
	}
	for attempt := 1; len(untried) > 0; attempt++ {
		if err := ctx.Err(); err != nil {
			return model.Car{}, fmt.Errorf("attempt %d: %w", attempt, err)
		}
		k := a.rnd.IntN(len(untried))
		if k < 0 || k >= len(untried) {
			return model.Car{}, fmt.Errorf(
				"random source %T returned %d, out of [0, %d)",
				a.rnd, k, len(untried),
			)
		}
		idx := untried[k]
		untried = slices.Delete(untried, k, k+1)
		carID := cc.CarIDs[idx]
		car, err := a.cars.Find(ctx, carID)
		if err != nil {
			return model.Car{}, fmt.Errorf("finding car %q: %w", carID, err)
		}
		car, err = a.cars.TryClaim(ctx, car.ID, model.IsAvailable, model.Claim)
		switch {
		case err == nil:
			log.Debug(
				ctx, "car is claimed",
				slog.String("category", cc.ID),
				slog.String("car", car.ID),
				slog.Int("attempt", attempt),
			)
			return car, nil
		case errors.Is(err, repo.ErrConflict):
			log.Debug(
				ctx, "car is not available",
				slog.String("category", cc.ID),
				slog.String("car", carID),
				slog.Int("attempt", attempt),
			)
		default:
			return model.Car{}, fmt.Errorf("claiming car %q: %w", carID, err)
		}
	}
	return model.Car{}, cerr.Conflict(fmt.Errorf(
		"category %q after %d attempts: %w", cc.ID, n, ErrNoAvailableCar,
	))
}

// Release makes a claimed car available again. The release itself is
// a claim with the inverse predicate, so a car which was released (or
// changed) by another caller in the interim is not overwritten and an
// error wrapping repo.ErrConflict is returned.
func (a *Allocator) Release(ctx context.Context, carID string) error {
	_, err := a.cars.TryClaim(ctx, carID, model.IsClaimed, model.Release)
	if err != nil {
		return fmt.Errorf("releasing car %q: %w", carID, err)
	}
	return nil
}
