package main

import (
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "speakyer",
		Short:         "Turn inbound email into podcast episodes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.LoadFile(configFlag)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "TOML file of environment settings")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newRebuildFeedCommand())

	return rootCmd
}
