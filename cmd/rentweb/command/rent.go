// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var quoteOnly bool

var rentCmd = &cobra.Command{
	Use:   "rent <customerId> <categoryId> <numberOfDays>",
	Short: "Claim a car of a category and print its transaction",
	Long: `Claim a randomly chosen available car of the given category for
the given customer and print the resulting transaction as JSON. With the
--quote flag, only the price is computed and no car is claimed.`,
	RunE: rent,
	Args: cobra.ExactArgs(3),
}

func rent(cmd *cobra.Command, args []string) (err error) {
	days, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("parsing number of days %q: %w", args[2], err)
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
	var out any
	if quoteOnly {
		amount, err := uc.Quote(ctx, args[0], args[1], days)
		if err != nil {
			return err
		}
		out = map[string]any{"amount": amount}
	} else {
		t, err := uc.QuoteAndClaim(ctx, args[0], args[1], days)
		if err != nil {
			return err
		}
		out = t
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func init() {
	rentCmd.Flags().BoolVar(
		&quoteOnly, "quote", false, "compute the price without claiming",
	)
	rootCmd.AddCommand(rentCmd)
}
