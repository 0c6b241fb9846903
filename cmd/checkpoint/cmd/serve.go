package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/checkpoint/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the configured endpoints until interrupted",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, closeAll, err := build(cfg)
	if err != nil {
		closeAll()
		return err
	}

	if err := s.Guide(cmd.Context()); err != nil {
		s.Logger().Error("service stopped", &logger.LogContext{Error: err})
		closeAll()
		return err
	}

	return closeAll()
}
