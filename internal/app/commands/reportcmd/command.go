package reportcmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/pkg/filesys"
	"github.com/acronis/go-ftl/pkg/report"
	"github.com/acronis/go-ftl/pkg/translator"
)

// Input is the operation outcome the report is rendered from.
type Input struct {
	Location        string                     `json:"location"`
	Games           []report.Game              `json:"games"`
	UnknownGames    []string                   `json:"unknownGames"`
	CloudConflict   bool                       `json:"cloudConflict"`
	CloudSyncFailed bool                       `json:"cloudSyncFailed"`
	Backups         map[string][]report.Backup `json:"backups"`
	FoundTitles     []string                   `json:"foundTitles"`
	SuppressOverall bool                       `json:"suppressOverall"`
}

type ReportOptions struct {
	JSON     bool
	Language string
}

func New(ctx context.Context) *cobra.Command {
	reportOpts := ReportOptions{}
	cmd := &cobra.Command{
		Use:   "report <input.json>",
		Short: "render a backup or restore report with the built-in string table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isolating, err := command.GetIsolating(cmd)
			if err != nil {
				return command.WrapError(err)
			}
			tr, err := translator.New(
				translator.WithLanguage(reportOpts.Language),
				translator.WithUseIsolating(isolating))
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, cmd.OutOrStdout(), tr, args[0], reportOpts))
		},
	}

	cmd.Flags().BoolVar(&reportOpts.JSON, "api", false, "print the machine-readable JSON report")
	cmd.Flags().StringVarP(&reportOpts.Language, "lang", "l", "", "report language or an Accept-Language value")
	return cmd
}

func execute(_ context.Context, w io.Writer, tr *translator.Translator, path string, opts ReportOptions) error {
	var in Input
	if err := filesys.ReadJSON(path, &in); err != nil {
		return fmt.Errorf("read report input: %w", err)
	}

	mode := report.ModeStandard
	if opts.JSON {
		mode = report.ModeJSON
	}
	r := report.New(mode, tr)
	if len(in.UnknownGames) > 0 {
		r.TripUnknownGames(in.UnknownGames)
	}
	if in.CloudConflict {
		r.TripCloudConflict()
	}
	if in.CloudSyncFailed {
		r.TripCloudSyncFailed()
	}
	if in.SuppressOverall {
		r.SuppressOverall()
	}

	for _, g := range in.Games {
		r.AddGame(g)
	}
	names := make([]string, 0, len(in.Backups))
	for name := range in.Backups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.AddBackups(name, in.Backups[name])
	}
	if len(in.FoundTitles) > 0 {
		r.AddFoundTitles(in.FoundTitles)
	}

	out, err := r.Render(in.Location)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
