// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the rentweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself, while sub-commands
// can prepare the storage, rent a car from the command line, stress
// the allocation policy with concurrent claims, or print the effective
// configuration settings.
//
//	./rentweb [-c /path/of/config.yaml]           # start web server
//	./rentweb db init [--categories N] [--cars N] [--customers N]
//	./rentweb rent <customerId> <categoryId> <days>
//	./rentweb stress <categoryId> [--workers N]
//	./rentweb config show
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/clean-rental/pkg/adapter/config"
	"github.com/momeni/clean-rental/pkg/adapter/config/cfg1"
	"github.com/momeni/clean-rental/pkg/adapter/restful/gin"
	"github.com/momeni/clean-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/momeni/clean-rental/pkg/core/usecase/rentaluc"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "rentweb",
	Short: "A car rental allocation and pricing web service",
	Long: `A car rental allocation and pricing web service which quotes
rental prices based on the category daily price, the number of days,
and the customer age, and claims a randomly chosen available car of the
requested category. Cars, categories, customers, and transactions may
be kept in JSON files, a PostgreSQL database, a redis server, or the
process memory as chosen by the configuration file.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

// loadConfig loads the configuration file and installs the default
// logger with its log level.
func loadConfig() (*cfg1.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err = log.SetDefault(os.Stderr, c.LogLevel); err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	return c, nil
}

// newUseCase opens the configured storage and instantiates the rentals
// use case on top of it. The returned closer must be called after use.
func newUseCase(
	ctx context.Context, c *cfg1.Config, opts ...rentaluc.Option,
) (*rentaluc.UseCase, *repo.Stores, func() error, error) {
	s, closer, err := c.Stores(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	uc, err := c.Usecases.Rentals.NewUseCase(*s, opts...)
	if err != nil {
		_ = closer()
		return nil, nil, nil, fmt.Errorf("creating rentals use case: %w", err)
	}
	return uc, s, closer, nil
}

func startWebServer(_ *cobra.Command, _ []string) (err error) {
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
	var e *gin.Engine = c.Gin.NewEngine()
	routes.Register(e, uc)
	log.Info(
		ctx, "starting web server",
		log.Stringer("config", c.Vers.Versions.Config),
		slog.String("storage", c.Storage.Driver),
		slog.String("address", *c.Gin.Address),
	)
	if err = e.Run(*c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
