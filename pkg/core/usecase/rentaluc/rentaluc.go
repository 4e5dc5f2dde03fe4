// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentaluc contains the rentals UseCase which quotes rental
// prices and claims cars. Currently, these use cases are supported:
//  1. Listing car categories,
//  2. Quoting the price of renting a car of some category,
//  3. Quoting and claiming a car of some category in one step.
//
// Cars are allocated by the Allocator (random order, each car at most
// once) and priced by the Pricing policy (category price, number of
// days, and the customer age based multiplier).
package rentaluc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// UseCase represents the rentals use case. It holds the entities
// collections, the allocation and pricing policies, and the clock and
// ID generator which are used for building transactions.
type UseCase struct {
	stores    repo.Stores
	allocator *Allocator
	pricing   *Pricing

	rnd      RandomSource
	brackets []AgeBracket
	maxDays  int
	places   *int32
	now      func() time.Time
	newID    func() string
}

// New instantiates a rentals use case.
// The cars, categories, and customers collections of s are mandatory,
// while a nil s.Transactions disables persisting of the issued
// transactions. Optional parameters are passed as a series of
// functional options in order to facilitate their validation.
func New(s repo.Stores, opts ...Option) (*UseCase, error) {
	switch {
	case s.Cars == nil:
		return nil, errors.New("cars collection is nil")
	case s.Categories == nil:
		return nil, errors.New("categories collection is nil")
	case s.Customers == nil:
		return nil, errors.New("customers collection is nil")
	}
	uc := &UseCase{stores: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	places := int32(DefaultCurrencyPlaces)
	if uc.places != nil {
		places = *uc.places
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.newID == nil {
		uc.newID = uuid.NewString
	}
	p, err := NewPricing(uc.brackets, uc.maxDays, places)
	if err != nil {
		return nil, fmt.Errorf("invalid pricing policy: %w", err)
	}
	uc.pricing = p
	uc.allocator = NewAllocator(s.Cars, uc.rnd)
	return uc, nil
}

// Categories returns all car categories.
func (uc *UseCase) Categories(ctx context.Context) ([]model.CarCategory, error) {
	ccs, err := uc.stores.Categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding categories: %w", err)
	}
	return ccs, nil
}

// Quote computes the price of renting a car of the categoryID category
// by the customerID customer for numberOfDays days, without claiming
// any car. Unknown IDs cause errors wrapping repo.ErrNotFound and an
// invalid numberOfDays causes a *model.ValidationError (classified as
// a bad request).
func (uc *UseCase) Quote(
	ctx context.Context, customerID, categoryID string, numberOfDays int,
) (decimal.Decimal, error) {
	c, cc, err := uc.load(ctx, customerID, categoryID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	amount, err := uc.pricing.ComputePrice(cc, numberOfDays, c)
	if err != nil {
		return decimal.Decimal{}, cerr.BadRequest(err)
	}
	return amount, nil
}

// QuoteAndClaim claims an available car of the categoryID category for
// the customerID customer and returns a transaction which describes the
// claimed car and the computed amount for numberOfDays days.
//
// The operation is all-or-nothing. If pricing (or persisting the
// transaction) fails after a car is claimed, that car is released
// before returning the error. Errors keep their kind, so callers may
// use errors.Is with repo.ErrNotFound or ErrNoAvailableCar, and
// errors.As with *model.ValidationError.
func (uc *UseCase) QuoteAndClaim(
	ctx context.Context, customerID, categoryID string, numberOfDays int,
) (*model.Transaction, error) {
	c, cc, err := uc.load(ctx, customerID, categoryID)
	if err != nil {
		return nil, err
	}
	car, err := uc.allocator.Allocate(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("allocating a car: %w", err)
	}
	amount, err := uc.pricing.ComputePrice(cc, numberOfDays, c)
	if err != nil {
		return nil, uc.release(ctx, car.ID, cerr.BadRequest(err))
	}
	t := &model.Transaction{
		ID:           uc.newID(),
		Customer:     c,
		Car:          car,
		CategoryID:   cc.ID,
		NumberOfDays: numberOfDays,
		Amount:       amount,
		DueDate:      uc.now().AddDate(0, 0, numberOfDays),
	}
	if tr := uc.stores.Transactions; tr != nil {
		if err = tr.Insert(ctx, *t); err != nil {
			err = fmt.Errorf("persisting transaction: %w", err)
			return nil, uc.release(ctx, car.ID, err)
		}
	}
	log.Info(
		ctx, "car is rented",
		slog.String("transaction", t.ID),
		slog.String("customer", c.ID),
		slog.String("car", car.ID),
		log.Stringer("amount", amount),
	)
	return t, nil
}

// load fetches the customerID customer and categoryID category.
func (uc *UseCase) load(
	ctx context.Context, customerID, categoryID string,
) (model.Customer, model.CarCategory, error) {
	c, err := uc.stores.Customers.Find(ctx, customerID)
	if err != nil {
		err = fmt.Errorf("finding customer %q: %w", customerID, err)
		return model.Customer{}, model.CarCategory{}, err
	}
	cc, err := uc.stores.Categories.Find(ctx, categoryID)
	if err != nil {
		err = fmt.Errorf("finding category %q: %w", categoryID, err)
		return model.Customer{}, model.CarCategory{}, err
	}
	return c, cc, nil
}

// release compensates a claim of the carID car after cause error and
// returns the error which should be reported to the caller. The claim
// is released even if ctx is already canceled.
func (uc *UseCase) release(ctx context.Context, carID string, cause error) error {
	ctx = context.WithoutCancel(ctx)
	err := uc.allocator.Release(ctx, carID)
	if err == nil {
		return cause
	}
	log.Error(
		ctx, "failed to release a claimed car",
		slog.String("car", carID),
		log.Err("cause", cause),
		log.Err("err", err),
	)
	return errors.Join(cause, err)
}
