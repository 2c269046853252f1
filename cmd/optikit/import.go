package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <lens-file>",
	Short: "Import a Zemax lens file",
	Long:  `Reads a Zemax .zmx file, groups its surfaces into elements and writes the resulting model document to stdout (or --output).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd, args[0]); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	importCmd.Flags().StringP("output", "o", "", "Write the model document to a file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, path string) error {
	m, err := loadModel(cmd, path)
	if err != nil {
		return err
	}

	out := os.Stdout
	if dest, _ := cmd.Flags().GetString("output"); dest != "" {
		f, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return m.Save(out)
}
