package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/searchcore/indexcore"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <userID> [userID...]",
	Short: "Enqueue a deletion update for the given document ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := indexcore.Open(dataPath, "", newLogger())
		if err != nil {
			return err
		}
		defer ix.Close()

		id, err := ix.EnqueueDeletion(args)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued update %d (%d ids)\n", id, len(args))
		return nil
	},
}
