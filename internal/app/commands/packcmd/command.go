package packcmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/filesys"
	"github.com/acronis/go-ftl/pkg/manifest"
)

type PackOptions struct {
	Output string
}

func New(ctx context.Context) *cobra.Command {
	packOpts := PackOptions{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "pack the indexed locale files into a zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := command.GetLocalesDir(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			if packOpts.Output == "" {
				baseDir, err := command.GetWorkingDir(cmd)
				if err != nil {
					return fmt.Errorf("get base directory: %w", err)
				}
				packOpts.Output = filepath.Join(baseDir, "locales.zip")
			}

			return command.WrapError(execute(ctx, dir, packOpts))
		},
	}

	cmd.Flags().StringVarP(&packOpts.Output, "output", "o", "", "archive path, locales.zip in the working directory by default")
	return cmd
}

func execute(_ context.Context, dir string, opts PackOptions) error {
	slog.Info("Packing locales", slog.String("path", dir))
	m, err := manifest.Open(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	if err := m.Verify(); err != nil {
		return fmt.Errorf("verify manifest: %w", err)
	}

	files := append([]string{manifest.FileName}, m.Files()...)
	if err := filesys.Pack(dir, files, opts.Output); err != nil {
		return fmt.Errorf("pack locales: %w", err)
	}

	slog.Info("Packing has been completed", slog.String("filename", opts.Output), slog.Int("files", len(files)))
	return nil
}
