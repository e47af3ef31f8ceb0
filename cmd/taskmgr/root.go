package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/taskmgr/internal/config"
)

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "taskmgr",
		Short:         "Task management service",
		Long:          "taskmgr stores tasks, derives their priority from status and serves them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			setupLogging(cfg.Log)
			return nil
		},
	}

	loadConfig := func() *config.Config { return cfg }
	root.AddCommand(newServeCmd(loadConfig))
	root.AddCommand(newReportCmd(loadConfig))

	return root
}

// setupLogging replaces the global zerolog logger.
func setupLogging(lc config.LogConfig) {
	zerolog.SetGlobalLevel(lc.Level)

	if lc.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
