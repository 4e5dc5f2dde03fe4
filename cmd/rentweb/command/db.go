// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/momeni/clean-rental/pkg/adapter/seed"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Storage management actions",
	Long: `Storage management actions can be chosen by sub-commands.
For a fresh installation in a development environment, the init action
may be used in order to prepare the storage and fill it with samples.`,
}

var seedOpts seed.Options

var seedValue uint64

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the storage and fill it with sample records",
	Long: `Prepare the configured storage (e.g., create the records table
of a PostgreSQL database) and fill it with sample car categories, cars,
and customers. Every category lists existing cars only and all cars are
available initially. Existing records are kept and a duplicate ID fails
the operation.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(cmd *cobra.Command, _ []string) (err error) {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err = c.InitStorage(ctx); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	s, closer, err := c.Stores(ctx)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err2 := closer(); err2 != nil && err == nil {
			err = fmt.Errorf("closing storage: %w", err2)
		}
	}()
	if seedValue == 0 {
		seedValue = rand.Uint64()
	}
	rnd := rand.New(rand.NewPCG(seedValue, seedValue))
	res, err := seed.Generate(rnd, seedOpts)
	if err != nil {
		return fmt.Errorf("generating samples: %w", err)
	}
	if err = seed.Store(ctx, s, res); err != nil {
		return fmt.Errorf("storing samples: %w", err)
	}
	for _, cc := range res.Categories {
		fmt.Fprintf(
			cmd.OutOrStdout(), "category %s (%s): %d cars, %s per day\n",
			cc.ID, cc.Name, len(cc.CarIDs), cc.Price,
		)
	}
	for _, cust := range res.Customers {
		fmt.Fprintf(
			cmd.OutOrStdout(), "customer %s (%s): %d years old\n",
			cust.ID, cust.Name, cust.Age,
		)
	}
	return nil
}

func init() {
	f := initCmd.Flags()
	f.IntVar(&seedOpts.Categories, "categories", 3, "number of categories")
	f.IntVar(&seedOpts.CarsPerCategory, "cars", 5, "number of cars per category")
	f.IntVar(&seedOpts.Customers, "customers", 10, "number of customers")
	f.Uint64Var(&seedValue, "seed", 0, "random seed (zero picks a random one)")
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}
