// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file actions",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration settings",
	Long: `Load, validate, and normalize the configuration file and print
it again, so default values and clamped settings become visible.
Comments of the configuration file are preserved.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
	Args: cobra.NoArgs,
}

func init() {
	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}
