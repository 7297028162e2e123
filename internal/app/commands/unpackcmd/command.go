package unpackcmd

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

func New(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <archive>",
		Short: "extract a locale archive into the locale directory and verify it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := command.GetLocalesDir(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, args[0], dir))
		},
	}
}

func execute(_ context.Context, archive, dir string) error {
	slog.Info("Unpacking locales", slog.String("archive", archive), slog.String("path", dir))
	if err := filesys.SecureUnzip(archive, dir); err != nil {
		return fmt.Errorf("unpack %s: %w", archive, err)
	}

	m, err := manifest.Open(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	if err := m.Verify(); err != nil {
		return fmt.Errorf("verify manifest: %w", err)
	}
	if err := m.VerifyDirectories(); err != nil {
		return fmt.Errorf("verify archive content: %w", err)
	}

	slog.Info("Unpacking has been completed", slog.Int("locales", len(m.Data.Locales)))
	return nil
}
