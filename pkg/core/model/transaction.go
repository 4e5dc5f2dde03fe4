// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the result of a successful quote-and-claim request.
// It keeps snapshots of the customer and the claimed car (as seen
// right after the claim), so it can be rendered or persisted without
// further lookups. A Transaction is never mutated after creation.
type Transaction struct {
	ID           string          `json:"id" validate:"required"`
	Customer     Customer        `json:"customer"`
	Car          Car             `json:"car"`
	CategoryID   string          `json:"categoryId" validate:"required"`
	NumberOfDays int             `json:"numberOfDays" validate:"gt=0"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"dueDate"`
}

// RecordID returns the transaction ID.
func (t Transaction) RecordID() string {
	return t.ID
}

// Validate checks the transaction fields including its nested
// customer and car snapshots.
func (t Transaction) Validate() error {
	var extra []string
	if t.Amount.IsNegative() {
		extra = append(extra, "amount")
	}
	return validateStruct(t, extra...)
}
