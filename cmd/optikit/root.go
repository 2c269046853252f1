package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/optikit/optikit"
	"github.com/optikit/optikit/internal/logging"
	"github.com/optikit/optikit/pkg/zemax"
)

var rootCmd = &cobra.Command{
	Use:   "optikit",
	Short: "Optikit inspects and synchronizes optical system models",
	Long:  `Optikit loads an optical model (yaml or Zemax .zmx), inspects its element tree, checks it against the surface sequence, and re-synchronizes the two when they drift.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log verbosity (debug, info, warn, error)")
}

// loadModel opens a model file. Zemax lens files are imported and grouped
// from scratch; anything else is treated as a saved optikit document.
func loadModel(cmd *cobra.Command, path string) (*optikit.Model, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger := logging.New(os.Stderr, logging.ParseLevel(level))

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".zmx") {
		seq, info, err := zemax.Read(f)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", path, err)
		}
		m, err := optikit.NewFromSequence(seq, optikit.WithLogger(logger), optikit.WithTitle(info.Title))
		if err != nil {
			return nil, err
		}
		m.Note = info.Note
		for cmdName, count := range info.Unhandled {
			logger.Debug("unhandled zemax command", "cmd", cmdName, "count", count)
		}
		return m, nil
	}

	m, err := optikit.Load(f, optikit.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}
