package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/searchcore/config"
	"github.com/gcbaptista/searchcore/indexcore"
)

var settingsCmd = &cobra.Command{
	Use:   "settings <file>",
	Short: "Enqueue a settings update from a JSON file of config.IndexSettings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read settings file: %w", err)
		}
		var settings config.IndexSettings
		if err := json.Unmarshal(raw, &settings); err != nil {
			return fmt.Errorf("parse settings file: %w", err)
		}

		ix, err := indexcore.Open(dataPath, "", newLogger())
		if err != nil {
			return err
		}
		defer ix.Close()

		id, err := ix.EnqueueSettings(&settings)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued update %d\n", id)
		return nil
	},
}
