// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/clean-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/shopspring/decimal"
)

type rawQuoteReq struct {
	CustomerID   string `form:"customerId" binding:"required"`
	NumberOfDays string `form:"numberOfDays" binding:"required"`
}

type quoteReq struct {
	CustomerID   string
	CategoryID   string
	NumberOfDays int
}

// QuoteResp is the response of a quote request. The amount is
// serialized as a decimal string.
type QuoteResp struct {
	CustomerID   string          `json:"customerId"`
	CategoryID   string          `json:"categoryId"`
	NumberOfDays int             `json:"numberOfDays"`
	Amount       decimal.Decimal `json:"amount"`
}

type rentReq struct {
	CustomerID   string `form:"customerId" json:"customerId" binding:"required"`
	CategoryID   string `form:"categoryId" json:"categoryId" binding:"required"`
	NumberOfDays int    `form:"numberOfDays" json:"numberOfDays"`
}

// CategoryResp describes one car category. Cars is the number of
// cars in the category, regardless of their availability.
type CategoryResp struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cars  int             `json:"cars"`
}

func (rs *resource) DserQuoteReq(c *gin.Context) *quoteReq {
	req := &rawQuoteReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	days, err := strconv.Atoi(req.NumberOfDays)
	serdser.Assert(
		&errs, err == nil, "numberOfDays",
		"Query param numberOfDays is not an integer.",
	)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &quoteReq{
		CustomerID:   req.CustomerID,
		CategoryID:   c.Param("catid"),
		NumberOfDays: days,
	}
}

func (rs *resource) DserRentReq(c *gin.Context) *rentReq {
	req := &rentReq{}
	if ok := serdser.Bind(c, req, nil); !ok {
		return nil
	}
	return req
}

func (rs *resource) SerCategories(ccs []model.CarCategory) []CategoryResp {
	resp := make([]CategoryResp, 0, len(ccs))
	for _, cc := range ccs {
		resp = append(resp, CategoryResp{
			ID:    cc.ID,
			Name:  cc.Name,
			Price: cc.Price,
			Cars:  len(cc.CarIDs),
		})
	}
	return resp
}
