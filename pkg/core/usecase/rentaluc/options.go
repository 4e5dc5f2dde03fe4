// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the rentals use case.
type Option func(uc *UseCase) error

// WithRandomSource option configures the source of random positions
// which is used for choosing cars. Tests may pass a fixed sequence in
// order to make the allocation order deterministic.
func WithRandomSource(rnd RandomSource) Option {
	return func(uc *UseCase) error {
		if rnd == nil {
			return errors.New("random source is nil")
		}
		if uc.rnd != nil {
			return errors.New("random source is already configured")
		}
		uc.rnd = rnd
		return nil
	}
}

// WithAgeBrackets option configures the age to tax multiplier table
// of the pricing policy. Brackets are validated by New.
func WithAgeBrackets(brackets ...AgeBracket) Option {
	return func(uc *UseCase) error {
		if uc.brackets != nil {
			return errors.New("age brackets are already configured")
		}
		uc.brackets = append([]AgeBracket{}, brackets...)
		return nil
	}
}

// WithMaxDays option limits the number of days of each rental.
func WithMaxDays(days int) Option {
	return func(uc *UseCase) error {
		if days <= 0 {
			return fmt.Errorf("max days (%d) is not positive", days)
		}
		if uc.maxDays != 0 {
			return errors.New("max days is already configured")
		}
		uc.maxDays = days
		return nil
	}
}

// WithCurrencyPlaces option configures the number of decimal places
// which amounts are rounded to. Zero is acceptable for currencies
// without a fractional unit.
func WithCurrencyPlaces(places int32) Option {
	return func(uc *UseCase) error {
		if places < 0 {
			return fmt.Errorf("currency places (%d) is negative", places)
		}
		if uc.places != nil {
			return errors.New("currency places is already configured")
		}
		uc.places = &places
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// computing the transactions due dates.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}

// WithIDGenerator option replaces the generator of transaction IDs
// which defaults to random UUIDs.
func WithIDGenerator(newID func() string) Option {
	return func(uc *UseCase) error {
		if newID == nil {
			return errors.New("id generator is nil")
		}
		uc.newID = newID
		return nil
	}
}
