// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the request deserialization and response
// serialization helpers which are shared by all resource packages.
// Binding failures and core errors are reported as JSON objects,
// either mapping field names to their error messages or having a
// "detail" key which describes the error.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/clean-rental/pkg/core/cerr"
	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/momeni/clean-rental/pkg/core/model"
)

// Bind deserializes the request into req using the b binding (or the
// binding which is chosen by the request method and content type if
// b is nil) and reports the binding errors to the client.
// It returns true only if req is filled and validated successfully.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	if b == nil {
		b = binding.Default(c.Request.Method, c.ContentType())
	}
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr reports err with the status code of its cerr classification
// (or 500 if it is not classified). A wrapped *model.ValidationError
// is reported with its offending fields list too.
func SerErr(c *gin.Context, err error) {
	status := cerr.StatusCode(err)
	h := gin.H{"detail": err.Error()}
	var ce *cerr.Error
	if errors.As(err, &ce) {
		h["detail"] = ce.Err.Error()
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		h["fields"] = ve.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error(c, "request failed", log.Err("err", err))
	}
	c.JSON(status, h)
}
