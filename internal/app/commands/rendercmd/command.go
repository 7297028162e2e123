package rendercmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/internal/pkg/slogex"
	"github.com/acronis/go-ftl/pkg/bundle"
	"github.com/acronis/go-ftl/pkg/catalog"
)

type RenderOptions struct {
	Locales   []string
	Args      []string
	Attribute string
}

func New(ctx context.Context) *cobra.Command {
	renderOpts := RenderOptions{}
	cmd := &cobra.Command{
		Use:   "render <message-id>",
		Short: "format a message through the locale fallback chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.LoadCatalog(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, cmd.OutOrStdout(), c, args[0], renderOpts))
		},
	}

	cmd.Flags().StringSliceVarP(&renderOpts.Locales, "locale", "l", nil, "wanted locales or an Accept-Language value")
	cmd.Flags().StringArrayVarP(&renderOpts.Args, "arg", "a", nil, "message argument as name=value, numbers are passed as numbers")
	cmd.Flags().StringVar(&renderOpts.Attribute, "attr", "", "format this attribute instead of the value")
	return cmd
}

func execute(_ context.Context, w io.Writer, c *catalog.Catalog, id string, opts RenderOptions) error {
	args, err := ParseArgs(opts.Args)
	if err != nil {
		return err
	}

	l := c.Localizer(opts.Locales...)
	var out string
	if opts.Attribute != "" {
		out, err = l.Attribute(id, opts.Attribute, args)
	} else {
		out, err = l.Format(id, args)
	}
	if errors.Is(err, catalog.ErrMissingMessage) {
		return err
	}
	if err != nil {
		slog.Warn("Message was formatted with fallbacks", slog.String("key", id), slogex.Error(err))
	}

	if tag, ok := l.Resolve(id); ok {
		slog.Debug("Message resolved", slog.String("key", id), slog.String("locale", tag.String()))
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ParseArgs turns name=value pairs into message arguments. Values that parse as
// numbers are passed as numbers so that plural selection applies. Decimals keep
// the fraction digits they were written with: "1.0" selects like "1.0", not "1".
func ParseArgs(pairs []string) (bundle.Args, error) {
	args := bundle.Args{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q, expected name=value", pair)
		}
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			args[name] = i
		} else if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			args[name] = decimalArg(value, f)
		} else {
			args[name] = value
		}
	}
	return args, nil
}

func decimalArg(literal string, f float64) any {
	if strings.ContainsAny(literal, "eE") {
		return f
	}
	_, fraction, ok := strings.Cut(literal, ".")
	if !ok {
		return f
	}
	return bundle.NumberValue{Value: f, Options: bundle.NumberOptions{MinimumFractionDigits: len(fraction)}}
}
