package verifycmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/manifest"
)

func New(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "check that " + manifest.FileName + " matches the locale directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := command.GetLocalesDir(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, dir))
		},
	}
}

func execute(_ context.Context, dir string) error {
	m, err := manifest.Open(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	if err := m.Verify(); err != nil {
		return err
	}
	slog.Info("Manifest is up to date", slog.String("path", dir), slog.Int("locales", len(m.Data.Locales)))
	return nil
}
