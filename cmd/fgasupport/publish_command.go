package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"fgasupport/internal/config"
	"fgasupport/internal/supportdir"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy rendered thumbnails and markers into the support repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kinds, err := parseKinds(kind)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			paths := make([]config.KindPaths, 0, len(kinds))
			for _, k := range kinds {
				paths = append(paths, cfg.KindPaths(k))
			}

			result, err := supportdir.NewPublisher(afero.NewOsFs(), cfg.Paths.RepoDir, logger).Publish(cmd.Context(), paths)
			if err != nil {
				if errors.Is(err, supportdir.ErrRepoMissing) {
					return fmt.Errorf("%w: clone it to %s or set paths.repo_dir", err, cfg.Paths.RepoDir)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published: %d copied, %d unchanged, %d markers pruned\n",
				result.Copied, result.Unchanged, result.Pruned)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Restrict publishing to one kind (servant, ce)")
	return cmd
}
