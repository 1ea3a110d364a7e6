// Command indexctl is an operator harness over indexcore.Index: it opens
// or creates an index file, enqueues updates, and drives the applier
// — a CLI surface for exercising the engine end to end, not a production
// serving frontend (spec.md's Non-goals exclude a network-facing API).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataPath string
	logLevel string
	logJSON  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "indexctl",
	Short: "Operate a single searchcore index file",
	Long: `indexctl drives one indexcore.Index directly: create it, enqueue
addition/deletion/settings updates against its queue, and step the
applier — useful for exercising the engine without a server in front of
it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		dataPath = viper.GetString("db")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "db", "./index.db", "Path to the index's bbolt file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output logs as JSON instead of console format")

	viper.SetEnvPrefix("indexctl")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
}
