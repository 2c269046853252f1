package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <model-file>",
	Short: "Check tree and sequence consistency",
	Long:  `Classifies the saved element tree against the grouping the surface sequence implies and reports the drift. With --fix the model is reconciled and written back.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCheck(cmd, args[0]); err != nil {
			fmt.Printf("Check failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().Bool("fix", false, "Reconcile and write the model back")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, path string) error {
	m, err := loadModel(cmd, path)
	if err != nil {
		return err
	}

	if m.IsConsistent() {
		fmt.Println("Model is consistent.")
		return nil
	}

	fix, _ := cmd.Flags().GetBool("fix")
	if !fix {
		ch, err := m.Refresh()
		if err != nil {
			return err
		}
		fmt.Printf("Model is out of sync: %d added, %d removed, %d modified. Re-run with --fix to persist.\n",
			len(ch.Added), len(ch.Removed), len(ch.Modified))
		os.Exit(1)
	}

	ch, err := m.Refresh()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.Save(f); err != nil {
		return err
	}
	fmt.Printf("Reconciled: %d added, %d removed, %d modified.\n",
		len(ch.Added), len(ch.Removed), len(ch.Modified))
	return nil
}
