package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/searchcore/indexcore"
	"github.com/gcbaptista/searchcore/model"
)

var (
	documentsFile string
	partial       bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Enqueue an addition update from a JSON array of documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(documentsFile)
		if err != nil {
			return fmt.Errorf("read documents file: %w", err)
		}

		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("parse documents file as a JSON array: %w", err)
		}
		docs := make([]*model.Document, 0, len(items))
		for i, item := range items {
			doc, err := model.UnmarshalDocumentJSON(item)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			docs = append(docs, doc)
		}

		ix, err := indexcore.Open(dataPath, "", newLogger())
		if err != nil {
			return err
		}
		defer ix.Close()

		id, err := ix.EnqueueAddition(docs, partial)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued update %d (%d documents)\n", id, len(docs))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&documentsFile, "documents", "", "Path to a JSON array of documents")
	addCmd.Flags().BoolVar(&partial, "partial", false, "Merge into existing documents instead of replacing them")
	_ = addCmd.MarkFlagRequired("documents")
}
