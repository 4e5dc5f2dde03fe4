// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Customer is an immutable person record. Age is only read by the
// pricing policy.
type Customer struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=0"`
}

// NewCustomer validates the given customer and returns it. A non-nil
// error is always a *ValidationError.
func NewCustomer(c Customer) (Customer, error) {
	if err := c.Validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// RecordID returns the customer ID.
func (c Customer) RecordID() string {
	return c.ID
}

// Validate checks the customer fields.
func (c Customer) Validate() error {
	return validateStruct(c)
}
