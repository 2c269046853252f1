package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optikit/optikit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of optikit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("optikit version %s\n", optikit.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
