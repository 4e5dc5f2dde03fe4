// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package seed generates sample categories, cars, and customers for
// development environments and stores them in a series of rentals
// collections. Generated records respect the entity invariants, so
// every category lists existing cars only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/shopspring/decimal"
)

var (
	categoryNames = []string{"Hatch", "Sedan", "SUV", "Pickup", "Van", "Coupe"}
	carNames      = []string{
		"Civic", "Corolla", "Golf", "Model 3", "Mustang",
		"Hilux", "Onix", "Wrangler", "Sprinter", "Focus",
	}
	firstNames = []string{
		"Ana", "Bruno", "Carla", "Diego", "Elisa", "Felipe",
		"Gabriela", "Hugo", "Iris", "Joana", "Kiane", "Lucas",
	}
)

// Options specifies the amount of generated records. Cars are
// generated per category.
type Options struct {
	Categories      int
	CarsPerCategory int
	Customers       int
}

// Result reports the generated records.
type Result struct {
	Categories []model.CarCategory
	Cars       []model.Car
	Customers  []model.Customer
}

// Generate creates sample records using the rnd random numbers
// generator. All generated cars are available and customers are aged
// between 18 and 50 (inclusive).
func Generate(rnd *rand.Rand, opts Options) (*Result, error) {
	res := &Result{}
	year := time.Now().Year()
	for range opts.Categories {
		// price is in [20, 100] with cents
		cents := 2000 + rnd.Int64N(8001)
		cc := model.CarCategory{
			ID:     uuid.NewString(),
			Name:   categoryNames[rnd.IntN(len(categoryNames))],
			CarIDs: make([]string, 0, opts.CarsPerCategory),
			Price:  decimal.New(cents, -2),
		}
		for range opts.CarsPerCategory {
			car, err := model.NewCar(model.Car{
				ID:           uuid.NewString(),
				Name:         carNames[rnd.IntN(len(carNames))],
				Available:    true,
				GasAvailable: true,
				ReleaseYear:  year - rnd.IntN(10),
			})
			if err != nil {
				return nil, fmt.Errorf("generating car: %w", err)
			}
			cc.CarIDs = append(cc.CarIDs, car.ID)
			res.Cars = append(res.Cars, car)
		}
		cc, err := model.NewCarCategory(cc)
		if err != nil {
			return nil, fmt.Errorf("generating category: %w", err)
		}
		res.Categories = append(res.Categories, cc)
	}
	for range opts.Customers {
		c, err := model.NewCustomer(model.Customer{
			ID:   uuid.NewString(),
			Name: firstNames[rnd.IntN(len(firstNames))],
			Age:  18 + rnd.IntN(33),
		})
		if err != nil {
			return nil, fmt.Errorf("generating customer: %w", err)
		}
		res.Customers = append(res.Customers, c)
	}
	return res, nil
}

// Store inserts the res records into the s collections. Cars are
// inserted before their categories.
func Store(ctx context.Context, s *repo.Stores, res *Result) error {
	for _, car := range res.Cars {
		if err := s.Cars.Insert(ctx, car); err != nil {
			return fmt.Errorf("inserting car: %w", err)
		}
	}
	for _, cc := range res.Categories {
		if err := s.Categories.Insert(ctx, cc); err != nil {
			return fmt.Errorf("inserting category: %w", err)
		}
	}
	for _, c := range res.Customers {
		if err := s.Customers.Insert(ctx, c); err != nil {
			return fmt.Errorf("inserting customer: %w", err)
		}
	}
	log.Info(
		ctx, "sample records are stored",
		slog.Int("categories", len(res.Categories)),
		slog.Int("cars", len(res.Cars)),
		slog.Int("customers", len(res.Customers)),
	)
	return nil
}
