package main

import (
	"github.com/spf13/cobra"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "dispatch",
	Short:         "Collect business leads, match workers to them, and run outreach",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(db *store.DB, cfg config.Config) error {
	rootCmd.AddCommand(CollectCmd(db, cfg))
	rootCmd.AddCommand(ImportWorkersCmd(db))
	rootCmd.AddCommand(AddWorkerCmd(db))
	rootCmd.AddCommand(ListLeadsCmd(db))
	rootCmd.AddCommand(ListWorkersCmd(db))
	rootCmd.AddCommand(ListJobsCmd(db))
	rootCmd.AddCommand(MatchCmd(db, cfg))
	rootCmd.AddCommand(CompleteJobCmd(db))
	rootCmd.AddCommand(SendEmailCmd(db, cfg))
	rootCmd.AddCommand(PreviewChatCmd(db, cfg))
	rootCmd.AddCommand(CheckRepliesCmd(db, cfg))
	rootCmd.AddCommand(SecretCmd(cfg))
	rootCmd.AddCommand(ExportCmd(db))
	rootCmd.AddCommand(StatsCmd(db))
	rootCmd.AddCommand(CleanupCmd(db))

	return rootCmd.Execute()
}
