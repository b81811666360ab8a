// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

// newRootCmd builds a fresh command tree; tests call it once per case.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wgsolve",
		Short:         "Within-group neutron transport solver",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is normal.
			_ = godotenv.Load(".env")
		},
	}
	root.AddCommand(newSolveCmd(), newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wgsolve version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wgsolve %s\n", version)
		},
	}
}
