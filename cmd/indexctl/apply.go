package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/searchcore/indexcore"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Drain every pending update in the queue, in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := indexcore.Open(dataPath, "", newLogger())
		if err != nil {
			return err
		}
		defer ix.Close()

		applied := 0
		for {
			ok, err := ix.ApplyNext()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			applied++
		}
		fmt.Printf("applied %d update(s)\n", applied)
		return nil
	},
}
