package main

import (
	"github.com/spf13/cobra"

	"github.com/kitbuilder587/osint-finder/internal/config"
)

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe the configured Telegram bots once and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			q, err := queryFromFlags(cmd, false)
			if err != nil {
				return err
			}

			prober, closeSecrets, err := newProber(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer closeSecrets()

			results, err := prober.ProbeAll(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	addQueryFlags(cmd)
	return cmd
}
