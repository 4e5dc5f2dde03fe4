// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentalsrs realizes the rentals resource, allowing the
// categories listing, price quoting, and car renting REST APIs to be
// accepted and delegated to the rentals use cases respectively.
package rentalsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/clean-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-rental/pkg/core/usecase/rentaluc"
)

type resource struct {
	rentals *rentaluc.UseCase
}

// Register instantiates a resource adapting the rentals use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/rentweb/v1/categories
//     in order to list the car categories,
//  2. GET request to /api/rentweb/v1/categories/:catid/quote
//     in order to compute a price without claiming a car,
//  3. POST request to /api/rentweb/v1/rentals
//     in order to claim a car and receive its transaction.
func Register(r *gin.RouterGroup, rentals *rentaluc.UseCase) {
	rs := &resource{rentals: rentals}
	r.GET("categories", rs.ListCategories)
	r.GET("categories/:catid/quote", rs.Quote)
	r.POST("rentals", rs.Rent)
}

func (rs *resource) ListCategories(c *gin.Context) {
	ccs, err := rs.rentals.Categories(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.SerCategories(ccs))
}

func (rs *resource) Quote(c *gin.Context) {
	req := rs.DserQuoteReq(c)
	if req == nil {
		return
	}
	amount, err := rs.rentals.Quote(
		c, req.CustomerID, req.CategoryID, req.NumberOfDays,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, &QuoteResp{
		CustomerID:   req.CustomerID,
		CategoryID:   req.CategoryID,
		NumberOfDays: req.NumberOfDays,
		Amount:       amount,
	})
}

func (rs *resource) Rent(c *gin.Context) {
	req := rs.DserRentReq(c)
	if req == nil {
		return
	}
	t, err := rs.rentals.QuoteAndClaim(
		c, req.CustomerID, req.CategoryID, req.NumberOfDays,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}
