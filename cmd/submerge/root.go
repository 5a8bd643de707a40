package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var verboseFlag bool

	ctx := newCommandContext(&configFlag, &logLevelFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "submerge",
		Short:         "Align edited subtitle tracks against their original",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log alignment decisions (same as --log-level debug)")

	rootCmd.AddCommand(newAlignCommand(ctx))
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newScoreCommand(ctx))
	rootCmd.AddCommand(newSplitsCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
