// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FirstReleaseYear is the smallest acceptable Car.ReleaseYear value.
// The upper bound is the next calendar year, so recently announced
// models may be registered too.
const FirstReleaseYear = 1886

// ValidationError reports that some fields of an entity (or some
// arguments of an operation) were not acceptable. Fields contains the
// JSON names of the offending fields, so clients can relate them to
// their own requests.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError returns a *ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("calyear", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= FirstReleaseYear && y <= int64(time.Now().Year()+1)
	})
	if err != nil {
		panic(err)
	}
	return v
}

// validateStruct runs the struct tag rules of s and merges their
// failures with the extra field names which were checked by the
// caller manually. A nil error is returned only when both are empty.
func validateStruct(s any, extra ...string) error {
	var fields []string
	err := validate.Struct(s)
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields = append(fields, fieldPath(fe))
		}
	default:
		return fmt.Errorf("validating %T: %w", s, err)
	}
	fields = append(fields, extra...)
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace of fe,
// so nested fields are reported like "car.releaseYear" and slice items
// like "carIds[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
