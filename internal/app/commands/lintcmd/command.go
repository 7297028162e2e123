package lintcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/catalog"
	"github.com/acronis/go-ftl/pkg/lint"
)

type LintOptions struct {
	Ignore []string
	Quiet  bool
}

func New(ctx context.Context) *cobra.Command {
	lintOpts := LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "check translations against the reference locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.LoadCatalog(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			strict, err := command.GetStrict(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, cmd.OutOrStdout(), c, strict, lintOpts))
		},
	}

	cmd.Flags().StringSliceVar(&lintOpts.Ignore, "ignore", nil, "issue codes to skip, e.g. missing-message")
	cmd.Flags().BoolVarP(&lintOpts.Quiet, "quiet", "q", false, "print errors only")
	return cmd
}

func execute(_ context.Context, w io.Writer, c *catalog.Catalog, strict bool, opts LintOptions) error {
	ignore := make([]lint.Code, 0, len(opts.Ignore))
	for _, code := range opts.Ignore {
		ignore = append(ignore, lint.Code(code))
	}

	report := lint.Lint(c, lint.WithStrict(strict), lint.WithIgnore(ignore...))
	for _, issue := range report.Issues {
		if opts.Quiet && issue.Severity != lint.SeverityError {
			continue
		}
		if _, err := fmt.Fprintln(w, issue.String()); err != nil {
			return fmt.Errorf("write issue: %w", err)
		}
	}

	slog.Info("Lint has been completed",
		slog.Int("locales", len(c.Locales())),
		slog.Int("errors", len(report.Errors())),
		slog.Int("warnings", len(report.Warnings())))

	return report.Err()
}
