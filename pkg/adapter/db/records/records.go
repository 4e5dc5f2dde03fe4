// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package records contains the helpers which are shared by the
// repo.Collection implementations, so they classify errors uniformly
// and realize the claim and insert semantics on a loaded slice of
// records in the same way.
package records

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/repo"
)

// NotFound returns a not-found error for the id record of the coll
// collection, wrapping repo.ErrNotFound.
func NotFound(coll, id string) error {
	return cerr.NotFound(fmt.Errorf("%s %q: %w", coll, id, repo.ErrNotFound))
}

// Conflict returns a conflict error for the id record of the coll
// collection, wrapping repo.ErrConflict.
func Conflict(coll, id string) error {
	return cerr.Conflict(fmt.Errorf("%s %q: %w", coll, id, repo.ErrConflict))
}

// Duplicate returns a conflict error for the id record of the coll
// collection, wrapping repo.ErrDuplicateID.
func Duplicate(coll, id string) error {
	return cerr.Conflict(fmt.Errorf("%s %q: %w", coll, id, repo.ErrDuplicateID))
}

// Invalid classifies the validation error of a record as a bad request.
func Invalid(coll string, err error) error {
	return cerr.BadRequest(fmt.Errorf("invalid %s record: %w", coll, err))
}

// Check validates rec which is loaded from (or is going to be stored
// in) the coll collection.
func Check[T repo.Record](coll string, rec T) error {
	if err := rec.Validate(); err != nil {
		return Invalid(coll, fmt.Errorf("%q: %w", rec.RecordID(), err))
	}
	return nil
}

// Decode unmarshals doc as the id record of the coll collection and
// validates it. Records which are stored partially valid are reported
// as invalid and never returned.
func Decode[T repo.Record](coll, id string, doc []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return rec, fmt.Errorf("decoding %s %q: %w", coll, id, err)
	}
	if err := Check(coll, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Index returns the index of the id record in recs, or -1.
func Index[T repo.Record](recs []T, id string) int {
	for i, r := range recs {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

// Claim validates the id record of recs and evaluates predicate on it.
// If it holds, mutation is applied on that record in-place. The caller
// must persist recs if and only if a nil error is returned.
func Claim[T repo.Record](
	coll string,
	recs []T,
	id string,
	predicate func(T) bool,
	mutation func(*T),
) (T, error) {
	var zero T
	i := Index(recs, id)
	if i < 0 {
		return zero, NotFound(coll, id)
	}
	if err := Check(coll, recs[i]); err != nil {
		return zero, err
	}
	if !predicate(recs[i]) {
		return zero, Conflict(coll, id)
	}
	mutation(&recs[i])
	return recs[i], nil
}

// Append validates rec and appends it to recs, unless its ID is taken.
func Append[T repo.Record](coll string, recs []T, rec T) ([]T, error) {
	if err := Check(coll, rec); err != nil {
		return nil, err
	}
	if Index(recs, rec.RecordID()) >= 0 {
		return nil, Duplicate(coll, rec.RecordID())
	}
	return append(recs, rec), nil
}
