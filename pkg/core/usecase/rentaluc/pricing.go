// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyPlaces is the number of decimal places of the
// smallest currency unit (e.g., cents) which amounts are rounded to.
const DefaultCurrencyPlaces = 2

// AgeBracket maps the inclusive [From, To] ages range to a tax
// Multiplier which is applied to the base rental amount.
type AgeBracket struct {
	From, To   int
	Multiplier decimal.Decimal
}

// Contains reports if age falls in the b bracket.
func (b AgeBracket) Contains(age int) bool {
	return b.From <= age && age <= b.To
}

// Pricing computes rental amounts. Its zero value has no age brackets,
// no maximum number of days, and rounds to zero decimal places, so it
// should be created with NewPricing.
type Pricing struct {
	brackets []AgeBracket // sorted by From, non-overlapping
	maxDays  int          // zero means unbounded
	places   int32
}

// NewPricing validates the given age brackets and returns a Pricing
// instance. Brackets must have a non-negative From, From <= To,
// a positive multiplier, and must not overlap each other. Ages which
// are not covered by any bracket take the neutral multiplier of 1.
// The maxDays may be zero in order to accept any positive duration.
func NewPricing(
	brackets []AgeBracket, maxDays int, places int32,
) (*Pricing, error) {
	if maxDays < 0 {
		return nil, fmt.Errorf("max days (%d) is negative", maxDays)
	}
	if places < 0 {
		return nil, fmt.Errorf("currency places (%d) is negative", places)
	}
	bs := slices.Clone(brackets)
	slices.SortFunc(bs, func(a, b AgeBracket) int {
		return cmp.Compare(a.From, b.From)
	})
	for i, b := range bs {
		switch {
		case b.From < 0:
			return nil, fmt.Errorf("bracket %d-%d: negative age", b.From, b.To)
		case b.From > b.To:
			return nil, fmt.Errorf("bracket %d-%d: empty range", b.From, b.To)
		case !b.Multiplier.IsPositive():
			return nil, fmt.Errorf(
				"bracket %d-%d: multiplier %s is not positive",
				b.From, b.To, b.Multiplier,
			)
		case i > 0 && bs[i-1].To >= b.From:
			return nil, fmt.Errorf(
				"bracket %d-%d overlaps with %d-%d",
				b.From, b.To, bs[i-1].From, bs[i-1].To,
			)
		}
	}
	return &Pricing{brackets: bs, maxDays: maxDays, places: places}, nil
}

// Multiplier returns the tax multiplier for the given age.
func (p *Pricing) Multiplier(age int) decimal.Decimal {
	for _, b := range p.brackets {
		if b.Contains(age) {
			return b.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}

// ComputePrice returns cc.Price * numberOfDays * Multiplier(age),
// rounded half-up to the configured currency places. It is a pure
// function of its arguments. A numberOfDays which is not positive (or
// exceeds the configured maximum) causes a *model.ValidationError.
func (p *Pricing) ComputePrice(
	cc model.CarCategory, numberOfDays int, c model.Customer,
) (decimal.Decimal, error) {
	if numberOfDays <= 0 || (p.maxDays > 0 && numberOfDays > p.maxDays) {
		return decimal.Decimal{}, model.NewValidationError("numberOfDays")
	}
	base := cc.Price.Mul(decimal.NewFromInt(int64(numberOfDays)))
	// Round is half away from zero which is half-up for the
	// non-negative amounts.
	return base.Mul(p.Multiplier(c.Age)).Round(p.places), nil
}
