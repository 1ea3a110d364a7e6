package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/searchcore/config"
	"github.com/gcbaptista/searchcore/indexcore"
)

var settingsFile string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new index file with the given settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := &config.IndexSettings{}
		if settingsFile != "" {
			raw, err := os.ReadFile(settingsFile)
			if err != nil {
				return fmt.Errorf("read settings file: %w", err)
			}
			if err := json.Unmarshal(raw, settings); err != nil {
				return fmt.Errorf("parse settings file: %w", err)
			}
		}

		ix, err := indexcore.Create(dataPath, settings, "", newLogger())
		if err != nil {
			return err
		}
		defer ix.Close()

		fmt.Printf("created index %q at %s\n", ix.ID(), dataPath)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&settingsFile, "settings", "", "Path to a JSON file of config.IndexSettings")
}
