package importcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/convert"
	"github.com/acronis/go-ftl/pkg/manifest"
)

type ImportOptions struct {
	Format string
	Locale string
	Name   string
	Force  bool
}

func New(ctx context.Context) *cobra.Command {
	importOpts := ImportOptions{}
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "import a JSON or go-i18n file into a locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := command.GetLocalesDir(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, dir, args[0], importOpts))
		},
	}

	cmd.Flags().StringVarP(&importOpts.Format, "format", "f", "", "source format: json or go-i18n, detected from the extension by default")
	cmd.Flags().StringVarP(&importOpts.Locale, "locale", "l", "", "target locale")
	cmd.Flags().StringVarP(&importOpts.Name, "name", "n", "", "name of the created message file, the source name by default")
	cmd.Flags().BoolVar(&importOpts.Force, "force", false, "overwrite an existing message file")
	_ = cmd.MarkFlagRequired("locale")
	return cmd
}

func execute(_ context.Context, localesDir, source string, opts ImportOptions) error {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", opts.Locale, err)
	}
	format, err := convert.DetectFormat(opts.Format, source)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	res, err := convert.Import(format, data, filepath.Base(source))
	if err != nil {
		return fmt.Errorf("import %s: %w", source, err)
	}

	name := opts.Name
	if name == "" {
		name, _, _ = strings.Cut(filepath.Base(source), ".")
	}
	target := filepath.Join(localesDir, tag.String(), name+manifest.FileExt)
	if _, err := os.Stat(target); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create locale directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(ftl.Serialize(res)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	slog.Info("Messages have been imported",
		slog.String("path", target),
		slog.String("format", string(format)),
		slog.Int("messages", len(res.Messages())))
	return nil
}
