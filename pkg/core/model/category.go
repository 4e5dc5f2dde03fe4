// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/shopspring/decimal"

// CarCategory groups a series of cars which share the same daily
// rental price. The CarIDs order has no meaning other than providing
// an index space for the random selection of cars. An empty CarIDs
// slice is valid, but such a category can never be allocated.
type CarCategory struct {
	ID     string          `json:"id" validate:"required"`
	Name   string          `json:"name" validate:"required"`
	CarIDs []string        `json:"carIds" validate:"dive,required"`
	Price  decimal.Decimal `json:"price"` // cost of one rental day
}

// NewCarCategory validates the given category and returns it. A
// non-nil error is always a *ValidationError.
func NewCarCategory(cc CarCategory) (CarCategory, error) {
	if err := cc.Validate(); err != nil {
		return CarCategory{}, err
	}
	return cc, nil
}

// RecordID returns the category ID.
func (cc CarCategory) RecordID() string {
	return cc.ID
}

// Validate checks the category fields. Price must be positive.
func (cc CarCategory) Validate() error {
	var extra []string
	if !cc.Price.IsPositive() {
		extra = append(extra, "price")
	}
	return validateStruct(cc, extra...)
}
