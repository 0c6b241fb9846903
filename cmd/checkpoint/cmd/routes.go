package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Lists every endpoint the configured manifest serves",
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, closeAll, err := build(cfg)
	defer closeAll()
	if err != nil {
		return err
	}

	routes, err := s.Routes()
	if err != nil {
		return err
	}

	for _, r := range routes {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}

	return nil
}
