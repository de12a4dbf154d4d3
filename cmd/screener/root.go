package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-screener/internal/catalog"
	"resume-screener/internal/client"
	"resume-screener/internal/shortlist"
)

const app = "screener"

// Actual version can be specified in build command.
var version = "unknown"

type cliConfig struct {
	Server    string        `mapstructure:"server"`
	Threshold int           `mapstructure:"threshold"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Format    string        `mapstructure:"format"`
	Catalog   string        `mapstructure:"catalog"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          app,
		Short:        "screener submits resumes to the screening API and shortlists the results",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	flags.String("server", "http://localhost:8080", "base URL of the screening API")
	flags.Int("threshold", shortlist.DefaultThreshold, "minimum score to shortlist")
	flags.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	flags.StringP("format", "o", "table", "output format: table or json")
	flags.String("catalog", "", "job template catalogue file (default is the built-in catalogue)")
	for _, key := range []string{"server", "threshold", "timeout", "format", "catalog"} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}
	v.SetEnvPrefix("SCREENER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newAnalyzeCmd(v),
		newHistoryCmd(v),
		newTemplatesCmd(v),
		newVersionCmd(),
	)
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func getConfig(v *viper.Viper) (cliConfig, error) {
	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	switch cfg.Format {
	case "table", "json":
	default:
		return cfg, fmt.Errorf("unknown format %q (want table or json)", cfg.Format)
	}
	if strings.TrimSpace(cfg.Server) == "" {
		return cfg, errors.New("server is required")
	}
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return cfg, fmt.Errorf("threshold %d out of range (want 0-100)", cfg.Threshold)
	}
	return cfg, nil
}

func loadCatalog(cfg cliConfig) (*catalog.Catalog, error) {
	if cfg.Catalog != "" {
		return catalog.Load(cfg.Catalog)
	}
	return catalog.Default()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}
