// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// their registration on a gin-gonic engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-rental/pkg/adapter/restful/gin/rentalsrs"
	"github.com/momeni/clean-rental/pkg/core/usecase/rentaluc"
)

// Prefix is the path prefix of all REST APIs.
const Prefix = "/api/rentweb/v1"

// Register instantiates a series of "resource" structs, from packages
// which are named like rentalsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Use case instances are created by the caller (based on the
// configuration settings) and must be ready to serve requests.
func Register(e *gin.Engine, rentals *rentaluc.UseCase) {
	r := e.Group(Prefix)
	rentalsrs.Register(r, rentals)
}
