package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-screener/internal/client"
	"resume-screener/internal/shortlist"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var onlyShortlisted bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every stored analysis, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(v)
			if err != nil {
				return err
			}
			records, err := client.New(cfg.Server, cfg.Timeout).List(cmd.Context())
			if err != nil {
				return err
			}
			if onlyShortlisted {
				return renderCandidates(cmd.OutOrStdout(), cfg.Format, cfg.Threshold,
					shortlist.Filter(shortlist.FromRecords(records), cfg.Threshold))
			}
			return renderRecords(cmd.OutOrStdout(), cfg.Format, records)
		},
	}
	cmd.Flags().BoolVar(&onlyShortlisted, "shortlist", false, "only show analyses at or above the threshold")
	return cmd
}
