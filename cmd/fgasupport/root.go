package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag string
	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "fgasupport",
		Short: "Mirror the FGO support catalogs and render support thumbnails",
		Long: "fgasupport keeps a local mirror of the servant and craft essence catalogs,\n" +
			"downloads face art for entries that changed since the last run, and renders\n" +
			"the support thumbnails published to the support repository.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path (default ~/.config/fgasupport/config.toml)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSyncCommand(ctx),
		newPublishCommand(ctx),
		newFoldersCommand(ctx),
		newRenderCommand(ctx),
		newConfigCommand(ctx),
	)
	return rootCmd
}
