// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by the JSON
// codecs or validators) since adding more tags does not complicate
// definition of a struct, but can prevent unnecessary structs
// duplication.
package model

// Car models a rentable car. It belongs to exactly one CarCategory
// which lists its ID in the CarIDs field. The Available flag is the
// only mutable field and it is only written by the claim operation
// of a cars repository (see repo.Collection.TryClaim).
type Car struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Available    bool   `json:"available"`
	GasAvailable bool   `json:"gasAvailable"`
	ReleaseYear  int    `json:"releaseYear" validate:"calyear"`
}

// NewCar validates the given car and returns it. A non-nil error is
// always a *ValidationError which lists the offending fields and in
// that case, a zero Car is returned.
func NewCar(c Car) (Car, error) {
	if err := c.Validate(); err != nil {
		return Car{}, err
	}
	return c, nil
}

// RecordID returns the car ID, so Car may be kept in a collection.
func (c Car) RecordID() string {
	return c.ID
}

// Validate checks the car fields and returns a *ValidationError if
// some of them are not acceptable.
func (c Car) Validate() error {
	return validateStruct(c)
}

// IsAvailable reports if the car may be claimed. It is used as the
// claim predicate by the allocation policy.
func IsAvailable(c Car) bool {
	return c.Available
}

// IsClaimed reports if the car is currently claimed. It is the
// predicate of the compensating release operation.
func IsClaimed(c Car) bool {
	return !c.Available
}

// Claim marks the car as unavailable.
func Claim(c *Car) {
	c.Available = false
}

// Release marks the car as available again.
func Release(c *Car) {
	c.Available = true
}
