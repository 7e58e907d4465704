package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "finder",
		Short:         "Lookup links and Telegram bot probes for a phone number or username",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// .env не обязателен
		_ = godotenv.Load()
	}

	rootCmd.AddCommand(newServeCmd(), newLinksCmd(), newProbeCmd())
	return rootCmd
}
