// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr classifies core errors. An Error wraps another error
// and attaches the HTTP status code which best describes its class,
// so outer layers can map failures to distinct user visible outcomes
// without knowing about every sentinel error of the core layer.
// Wrapped errors remain accessible with errors.Is and errors.As.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest classifies err as the caller's fault (e.g., a validation
// failure). Such errors must not be retried automatically.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict classifies err as a clash with the current state of some
// shared resource, such as an already claimed car.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// StatusCode returns the HTTP status code of the outermost *Error in
// the err chain, or http.StatusInternalServerError if err is not
// classified at all.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return http.StatusInternalServerError
}
