package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/snapedit/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string

	// cfg is resolved once before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "snapedit",
	Short: "Scriptable image editor",
	Long: `snapedit applies crop, rotation, filters and annotations to an image
and exports the result as JPEG. Edits are described by a YAML script, so a
render is reproducible. The serve subcommand exposes the same engine over
HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logrus.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", flagLogLevel)
		}
		logrus.SetLevel(level)

		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
