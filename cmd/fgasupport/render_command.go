package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fgasupport/internal/catalog"
	"fgasupport/internal/thumbnail"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		kind  string
		split bool
		name  string
	)

	cmd := &cobra.Command{
		Use:   "render SRC OUT",
		Short: "Render a thumbnail from a directory of images",
		Long: "Render composes the images in SRC the way sync does and writes the\n" +
			"grayscale thumbnail into OUT next to a -color variant. With --split each\n" +
			"image becomes its own grayscale strip named <name>_NNN.png.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			src, out := args[0], args[1]
			compositor := thumbnail.New(logger)
			w := cmd.OutOrStdout()

			if split {
				stem := strings.TrimSpace(name)
				if stem == "" {
					stem = filepath.Base(filepath.Clean(src))
				}
				written, err := compositor.RenderSplit(src, out, stem)
				if err != nil {
					return fmt.Errorf("render strips: %w", err)
				}
				for _, path := range written {
					fmt.Fprintln(w, path)
				}
				return nil
			}

			k, err := catalog.ParseKind(kind)
			if err != nil {
				return err
			}
			fileName := k.ImageFileName()
			stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
			grayPath := filepath.Join(out, fileName)
			colorPath := filepath.Join(out, stem+"-color.png")
			if err := compositor.Render(k, src, grayPath, colorPath); err != nil {
				return fmt.Errorf("render %s: %w", k, err)
			}
			fmt.Fprintln(w, grayPath)
			fmt.Fprintln(w, colorPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(catalog.KindServant), "Thumbnail layout (servant, ce)")
	cmd.Flags().BoolVar(&split, "split", false, "Write one grayscale strip per image instead of a composite")
	cmd.Flags().StringVar(&name, "name", "", "Strip file prefix for --split (defaults to the SRC directory name)")
	return cmd
}
