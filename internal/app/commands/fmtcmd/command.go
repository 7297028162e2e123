package fmtcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl"
	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/internal/pkg/slogex"
	"github.com/acronis/go-ftl/pkg/filesys"
	"github.com/acronis/go-ftl/pkg/manifest"
)

type FmtOptions struct {
	Check bool
}

func New(ctx context.Context) *cobra.Command {
	fmtOpts := FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "rewrite message files in canonical form",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				dir, err := command.GetLocalesDir(cmd)
				if err != nil {
					return command.WrapError(err)
				}
				if files, err = filesys.WalkDir(dir, manifest.FileExt); err != nil {
					return command.WrapError(fmt.Errorf("list message files: %w", err))
				}
			}

			return command.WrapError(execute(ctx, cmd.OutOrStdout(), files, fmtOpts))
		},
	}

	cmd.Flags().BoolVarP(&fmtOpts.Check, "check", "c", false, "list files that are not formatted instead of rewriting them")
	return cmd
}

func execute(_ context.Context, w io.Writer, files []string, opts FmtOptions) error {
	parser := ftl.NewParser()
	var unformatted int
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		res := parser.ParseResource(string(data))
		for _, junk := range res.Junk() {
			for _, annotation := range junk.Annotations {
				slog.Warn("Malformed entry is kept as is", slog.String("path", path), slogex.Error(annotation))
			}
		}

		formatted := ftl.Serialize(res, ftl.WithJunk(true))
		if formatted == string(data) {
			continue
		}
		unformatted++

		if opts.Check {
			if _, err := fmt.Fprintln(w, path); err != nil {
				return fmt.Errorf("write file name: %w", err)
			}
			continue
		}
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Info("File has been formatted", slog.String("path", path))
	}

	if opts.Check && unformatted > 0 {
		return fmt.Errorf("%d of %d files are not formatted: %w", unformatted, len(files), command.ErrCheckFailed)
	}
	return nil
}
