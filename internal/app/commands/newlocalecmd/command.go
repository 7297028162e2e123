package newlocalecmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/filesys"
	"github.com/acronis/go-ftl/pkg/manifest"
)

type NewLocaleOptions struct {
	From string
}

func New(ctx context.Context) *cobra.Command {
	newOpts := NewLocaleOptions{}
	cmd := &cobra.Command{
		Use:   "new-locale <tag>",
		Short: "create a locale from the message files of another one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := command.GetLocalesDir(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			if newOpts.From == "" {
				tag, err := command.GetDefaultLocale(cmd)
				if err != nil {
					return command.WrapError(err)
				}
				newOpts.From = tag.String()
			}

			return command.WrapError(execute(ctx, dir, args[0], newOpts))
		},
	}

	cmd.Flags().StringVar(&newOpts.From, "from", "", "locale to copy, the default locale if empty")
	return cmd
}

func execute(_ context.Context, dir, locale string, opts NewLocaleOptions) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	from, err := language.Parse(opts.From)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", opts.From, err)
	}

	src := filepath.Join(dir, from.String())
	dst := filepath.Join(dir, tag.String())
	if err := filesys.CopyDir(src, dst, func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir() && filepath.Ext(path) != manifest.FileExt
	}); err != nil {
		return fmt.Errorf("copy %s: %w", from, err)
	}
	slog.Info("Locale has been created", slog.String("locale", tag.String()), slog.String("from", from.String()))

	manifestPath := filepath.Join(dir, manifest.FileName)
	if _, err := os.Stat(manifestPath); err != nil {
		return nil
	}
	m, err := manifest.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	rebuilt, err := manifest.Build(dir, m.DefaultLocale())
	if err != nil {
		return fmt.Errorf("rebuild manifest: %w", err)
	}
	if err := rebuilt.Save(); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	slog.Info("Manifest has been updated", slog.String("path", manifestPath))
	return nil
}
