// Package cli holds the resumebuilder commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-builder/internal/shared/config"
)

var rootCmd = &cobra.Command{
	Use:           "resumebuilder",
	Short:         "Experience blob resume builder API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("env", "", "environment: dev, local, staging, production")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	bindFlag(rootCmd, "ENV", "env", true)
	bindFlag(rootCmd, "LOG_LEVEL", "log-level", true)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the command line against ctx, which is canceled on shutdown signals.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads env files, env vars and bound flags, in rising precedence.
func loadConfig() config.Config {
	return config.Load()
}

func bindFlag(cmd *cobra.Command, key, flagName string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	if err := viper.BindPFlag(key, flags.Lookup(flagName)); err != nil {
		panic(err)
	}
}
