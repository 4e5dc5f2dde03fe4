// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/momeni/clean-rental/pkg/core/usecase/rentaluc"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var stressOpts struct {
	workers  int
	customer string
	days     int
}

var stressCmd = &cobra.Command{
	Use:   "stress <categoryId>",
	Short: "Claim cars of a category concurrently",
	Long: `Run a series of concurrent quote-and-claim requests against the
given category and report how many of them succeeded or found no
available car. Each car must be claimed at most once; a car which is
reported by two successful requests is an error.`,
	RunE: stress,
	Args: cobra.ExactArgs(1),
}

func stress(cmd *cobra.Command, args []string) (err error) {
	if stressOpts.workers <= 0 {
		return fmt.Errorf("workers (%d) must be positive", stressOpts.workers)
	}
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	uc, _, closer, err := newUseCase(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := closer(); err2 != nil && err == nil {
			err = fmt.Errorf("closing storage: %w", err2)
		}
	}()

	var mutex sync.Mutex
	claimed := make(map[string]int)
	var unavailable int
	g, gctx := errgroup.WithContext(ctx)
	for range stressOpts.workers {
		g.Go(func() error {
			t, err := uc.QuoteAndClaim(
				gctx, stressOpts.customer, args[0], stressOpts.days,
			)
			mutex.Lock()
			defer mutex.Unlock()
			switch {
			case errors.Is(err, rentaluc.ErrNoAvailableCar):
				unavailable++
				return nil
			case err != nil:
				return err
			}
			claimed[t.Car.ID]++
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return fmt.Errorf("stressing category %q: %w", args[0], err)
	}
	succeeded := 0
	for carID, n := range claimed {
		succeeded += n
		if n > 1 {
			err = errors.Join(err, fmt.Errorf("car %q is claimed %d times", carID, n))
		}
	}
	fmt.Fprintf(
		cmd.OutOrStdout(), "succeeded: %d, no available car: %d\n",
		succeeded, unavailable,
	)
	return err
}

func init() {
	f := stressCmd.Flags()
	f.IntVarP(&stressOpts.workers, "workers", "w", 8, "number of concurrent requests")
	f.StringVar(&stressOpts.customer, "customer", "", "customer ID of all requests")
	f.IntVar(&stressOpts.days, "days", 1, "number of days of each rental")
	_ = stressCmd.MarkFlagRequired("customer")
	rootCmd.AddCommand(stressCmd)
}
