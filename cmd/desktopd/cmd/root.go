package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/config"
)

type rootOptions struct {
	configFile string
	envFile    string
}

// NewRootCommand builds the desktopd command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "desktopd",
		Short: "Desktop session backend",
		Long: `desktopd hosts browser desktop sessions: a virtual file tree, windows,
a power state machine and a simulated shell per session.

Configuration comes from defaults, an optional TOML file, a .env file and the
environment, in that order.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "TOML config file (overrides $"+config.FileEnv+")")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newShellCommand(opts))
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load resolves configuration honoring the persistent flags
func (o *rootOptions) load() (*config.Config, error) {
	if o.configFile != "" {
		if err := os.Setenv(config.FileEnv, o.configFile); err != nil {
			return nil, err
		}
	}
	return config.LoadFrom(o.envFile)
}
