package exportcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/catalog"
	"github.com/acronis/go-ftl/pkg/convert"
)

type ExportOptions struct {
	Format string
	Locale string
	Output string
}

func New(ctx context.Context) *cobra.Command {
	exportOpts := ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "export the messages of a locale as JSON or go-i18n TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.LoadCatalog(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, cmd.OutOrStdout(), c, exportOpts))
		},
	}

	cmd.Flags().StringVarP(&exportOpts.Format, "format", "f", "", "target format: json or go-i18n, detected from --output by default")
	cmd.Flags().StringVarP(&exportOpts.Locale, "locale", "l", "", "locale to export, the default locale if empty")
	cmd.Flags().StringVarP(&exportOpts.Output, "output", "o", "", "output file, stdout if empty")
	return cmd
}

func execute(_ context.Context, w io.Writer, c *catalog.Catalog, opts ExportOptions) error {
	tag := c.Default()
	if opts.Locale != "" {
		var err error
		if tag, err = language.Parse(opts.Locale); err != nil {
			return fmt.Errorf("parse locale %q: %w", opts.Locale, err)
		}
	}
	if !c.HasLocale(tag) {
		return fmt.Errorf("locale %s is not loaded", tag)
	}

	formatName := opts.Format
	if formatName == "" && opts.Output == "" {
		formatName = string(convert.FormatJSON)
	}
	format, err := convert.DetectFormat(formatName, opts.Output)
	if err != nil {
		return err
	}

	merged := &ftl.Resource{}
	for _, res := range c.Resources(tag) {
		merged.Body = append(merged.Body, res.Body...)
	}
	data, err := convert.Export(format, merged)
	if err != nil {
		return fmt.Errorf("export %s: %w", tag, err)
	}

	if opts.Output == "" {
		_, err = w.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}
	slog.Info("Messages have been exported",
		slog.String("path", opts.Output),
		slog.String("locale", tag.String()),
		slog.Int("messages", len(merged.Messages())))
	return nil
}
