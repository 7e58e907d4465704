package main

import (
	"github.com/spf13/cobra"

	"github.com/kitbuilder587/osint-finder/internal/config"
)

func newLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Print the lookup link catalog for a phone number or username",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			q, err := queryFromFlags(cmd, true)
			if err != nil {
				return err
			}

			c, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), c.Generate(q))
		},
	}
	addQueryFlags(cmd)
	return cmd
}
