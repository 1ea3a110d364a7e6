package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/searchcore/indexcore"
)

var statusCmd = &cobra.Command{
	Use:   "status <updateID>",
	Short: "Print the recorded result of one update id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid update id %q: %w", args[0], err)
		}

		ix, err := indexcore.Open(dataPath, "", newLogger())
		if err != nil {
			return err
		}
		defer ix.Close()

		result, err := ix.Result(id)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Printf("update %d: not found\n", id)
			return nil
		}
		fmt.Printf("update %d: status=%s inserted=%d deleted=%d\n", result.UpdateID, result.Status, result.Inserted, result.Deleted)
		if result.Error != "" {
			fmt.Printf("  error: %s\n", result.Error)
		}
		return nil
	},
}
