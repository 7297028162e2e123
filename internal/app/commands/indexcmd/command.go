package indexcmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/manifest"
)

func New(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "write " + manifest.FileName + " for the locale directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := command.GetLocalesDir(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			tag, err := command.GetDefaultLocale(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, dir, tag))
		},
	}
}

func execute(_ context.Context, dir string, defaultLocale language.Tag) error {
	slog.Info("Indexing locales", slog.String("path", dir))
	m, err := manifest.Build(dir, defaultLocale)
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	if err := m.Save(); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	for _, name := range m.LocaleNames() {
		locale := m.Data.Locales[name]
		slog.Info("Locale indexed",
			slog.String("locale", name),
			slog.Int("files", len(locale.Files)),
			slog.Int("messages", locale.Messages))
	}
	return nil
}
