package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"fgasupport/internal/supportdir"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	var (
		kind  string
		repo  bool
		clean bool
	)

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List support folders and their name markers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kinds, err := parseKinds(kind)
			if err != nil {
				return err
			}
			fsys := afero.NewOsFs()
			out := cmd.OutOrStdout()

			if clean {
				logger, err := ctx.logger()
				if err != nil {
					return err
				}
				removed, failed := 0, 0
				for _, k := range kinds {
					paths := cfg.KindPaths(k)
					for _, root := range []string{paths.OutputDir, paths.OutputColorDir} {
						result := supportdir.CleanMarkers(fsys, root, k, logger)
						removed += len(result.Removed)
						failed += len(result.Errors)
					}
				}
				fmt.Fprintf(out, "Removed %d stale markers", removed)
				if failed > 0 {
					fmt.Fprintf(out, " (%d errors, see log)", failed)
				}
				fmt.Fprintln(out)
			}

			var rows [][]string
			for _, k := range kinds {
				paths := cfg.KindPaths(k)
				root := paths.OutputDir
				if repo {
					root = paths.RepoDir
				}
				folders, err := supportdir.Index(fsys, root, k)
				if err != nil {
					return fmt.Errorf("index %s folders: %w", k, err)
				}
				for _, folder := range folders {
					rows = append(rows, []string{
						k.DisplayName(),
						strconv.Itoa(folder.Idx),
						folder.Name,
						yesNo(folder.HasImage),
						strconv.Itoa(folder.Markers),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No support folders found")
				return nil
			}
			headers := []string{"Kind", "Idx", "Name", "Image", "Markers"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Restrict the listing to one kind (servant, ce)")
	cmd.Flags().BoolVar(&repo, "repo", false, "List the support repository instead of the output tree")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove all but the newest marker in each output folder first")
	return cmd
}
