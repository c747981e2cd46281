package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stateful/typstify/internal/config"
	"github.com/stateful/typstify/internal/log"
)

var (
	fChdir   string
	fConfig  string
	fVerbose bool

	// projectConfig is resolved before any command runs.
	projectConfig *config.Config
)

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "typstify",
		Short:         "Edit and compile Typst projects from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			projectConfig = cfg

			if fVerbose || cfg.Log.Enabled {
				log.Set(fVerbose || cfg.Log.Verbose, cfg.Log.Path)
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVar(&fChdir, "chdir", ".", "Project directory.")
	pflags.StringVar(&fConfig, "config", "", "Configuration file. Defaults to typstify.yaml or typstify.toml in the project directory.")
	pflags.BoolVarP(&fVerbose, "verbose", "v", false, "Log debug information to stderr.")

	cmd.AddCommand(newCmd())
	cmd.AddCommand(treeCmd())
	cmd.AddCommand(touchCmd())
	cmd.AddCommand(mkdirCmd())
	cmd.AddCommand(mvCmd())
	cmd.AddCommand(rmCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(writeCmd())
	cmd.AddCommand(compileCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(shellCmd())

	return &cmd
}
