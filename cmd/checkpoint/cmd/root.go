package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/checkpoint/config"
)

var (
	cfgFile  string
	envFiles []string
	prefix   string
)

var rootCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "checkpoint validates and authorizes HTTP requests",
	Long: `checkpoint serves the endpoints a manifest declares.

Each request is parsed and validated against its endpoint's groups,
then runs through the endpoint's checks before reaching its handler.`,
	SilenceUsage: true,
}

// Execute runs the checkpoint command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file overriding environment variables")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, ".env files to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", config.DefaultPrefix, "prefix of the environment variables to read")
}

func loadConfig() (config.Config, error) {
	opts := []config.LoadOpt{config.WithEnvFiles(envFiles...)}
	if cfgFile != "" {
		opts = append(opts, config.WithFile(cfgFile))
	}

	return config.Load(prefix, opts...)
}
