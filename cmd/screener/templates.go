package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTemplatesCmd(v *viper.Viper) *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Print the job template catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(v)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if show != "" {
				job, err := cat.Find(show)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, job.Render())
				return nil
			}
			return renderCatalog(out, cfg.Format, cat)
		},
	}
	cmd.Flags().StringVar(&show, "show", "", "print the rendered job description for one role")
	return cmd
}
