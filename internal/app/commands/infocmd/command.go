package infocmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language/display"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/catalog"
	"github.com/acronis/go-ftl/pkg/translator"
)

type InfoOptions struct {
	Embedded bool
}

func New(ctx context.Context) *cobra.Command {
	infoOpts := InfoOptions{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "list locales with their translation progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c *catalog.Catalog
			if infoOpts.Embedded {
				tr, err := translator.New()
				if err != nil {
					return command.WrapError(err)
				}
				c = tr.Catalog()
			} else {
				var err error
				if c, err = command.LoadCatalog(cmd); err != nil {
					return command.WrapError(err)
				}
			}

			return command.WrapError(execute(ctx, cmd.OutOrStdout(), c))
		},
	}

	cmd.Flags().BoolVar(&infoOpts.Embedded, "embedded", false, "describe the built-in string table instead of the locale directory")
	return cmd
}

func execute(_ context.Context, w io.Writer, c *catalog.Catalog) error {
	files := map[string]int{}
	if report := c.Report(); report != nil {
		for _, f := range report.Files {
			files[f.Locale.String()]++
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tNAME\tFILES\tMESSAGES\tTRANSLATED")
	for _, tag := range c.Locales() {
		var messages int
		if b, ok := c.Bundle(tag); ok {
			messages = len(b.MessageIDs())
		}
		name := display.Self.Name(tag)
		if tag == c.Default() {
			name += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.0f%%\n", tag, name, files[tag.String()], messages, c.Completeness(tag)*100)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write locales: %w", err)
	}
	return nil
}
