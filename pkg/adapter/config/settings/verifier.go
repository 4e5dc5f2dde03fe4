// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a setting which was outside of its
// boundaries (and was clamped), or boundaries which are inverted.
type OutOfRangeError[T cmp.Ordered] struct {
	Value        *T   // original value, nil for an InvalidRange
	LessThanMin  bool // otherwise, it was greater than max
	InvalidRange bool // min is greater than max
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.InvalidRange:
		return "min is greater than max"
	case e.LessThanMin:
		return fmt.Sprintf("value %v is less than min", *e.Value)
	default:
		return fmt.Sprintf("value %v is greater than max", *e.Value)
	}
}

// VerifyRange clamps *value into the [minb, maxb] range. Nil value or
// boundaries are not checked. If *value is changed, the returned error
// keeps its original value. Inverted boundaries leave *value intact.
func VerifyRange[T cmp.Ordered](
	value **T, minb, maxb *T,
) *OutOfRangeError[T] {
	switch {
	case minb != nil && maxb != nil && *minb > *maxb:
		return &OutOfRangeError[T]{InvalidRange: true}
	case *value == nil:
		return nil
	}
	v := **value
	switch {
	case minb != nil && v < *minb:
		**value = *minb
		return &OutOfRangeError[T]{Value: &v, LessThanMin: true}
	case maxb != nil && v > *maxb:
		**value = *maxb
		return &OutOfRangeError[T]{Value: &v}
	}
	return nil
}
