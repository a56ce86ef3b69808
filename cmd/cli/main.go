// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmarkets/jmarkets/internal/storefront/bootstrap"
	"github.com/jmarkets/jmarkets/internal/storefront/config"
	"github.com/jmarkets/jmarkets/pkg/version"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "jmarkets-cli",
	Short: "jmarkets cli is the platform administration tool",
	Long:  "jmarkets cli is the platform administration tool",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

var seedRolesCmd = &cobra.Command{
	Use:   "seed-roles",
	Short: "install the built-in roles and their permission matrices",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(config.NewConf(configFile))
		if err != nil {
			return err
		}
		if err := app.PermissionSvc.SeedSystemRoles(); err != nil {
			return err
		}
		fmt.Println("system roles seeded")
		return nil
	},
}

var checkSubdomainCmd = &cobra.Command{
	Use:   "check-subdomain <subdomain>",
	Short: "report whether a subdomain is available",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(config.NewConf(configFile))
		if err != nil {
			return err
		}
		available, err := app.Router.Directory.IsSubdomainAvailable(args[0])
		if err != nil {
			return err
		}
		if available {
			fmt.Printf("%s: available\n", args[0])
		} else {
			fmt.Printf("%s: taken or reserved\n", args[0])
		}
		return nil
	},
}

var deactivateOrgCmd = &cobra.Command{
	Use:   "deactivate-org <orgId>",
	Short: "soft-disable an organization and drop its subdomain mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(config.NewConf(configFile))
		if err != nil {
			return err
		}
		if err := app.Router.OrgSvc.Deactivate(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("organization %s deactivated\n", args[0])
		return nil
	},
}

var expireInvitationsCmd = &cobra.Command{
	Use:   "expire-invitations",
	Short: "expire every pending invitation past its deadline",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(config.NewConf(configFile))
		if err != nil {
			return err
		}
		n, err := app.InvitationSvc.ExpireOverdue()
		if err != nil {
			return err
		}
		fmt.Printf("expired %d invitations\n", n)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path")
	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(seedRolesCmd)
	rootCmd.AddCommand(checkSubdomainCmd)
	rootCmd.AddCommand(deactivateOrgCmd)
	rootCmd.AddCommand(expireInvitationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
