package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/acronis/go-stacktrace"
	slogex "github.com/acronis/go-stacktrace/slogex"
	"github.com/dusted-go/logging/prettylog"
	"github.com/mattn/go-isatty"
	slogformatter "github.com/samber/slog-formatter"
	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/command"
	"github.com/acronis/go-ftl/internal/app/commands/convertcmd"
	"github.com/acronis/go-ftl/internal/app/commands/fmtcmd"
	"github.com/acronis/go-ftl/internal/app/commands/indexcmd"
	"github.com/acronis/go-ftl/internal/app/commands/infocmd"
	"github.com/acronis/go-ftl/internal/app/commands/lintcmd"
	"github.com/acronis/go-ftl/internal/app/commands/newlocalecmd"
	"github.com/acronis/go-ftl/internal/app/commands/packcmd"
	"github.com/acronis/go-ftl/internal/app/commands/rendercmd"
	"github.com/acronis/go-ftl/internal/app/commands/reportcmd"
	"github.com/acronis/go-ftl/internal/app/commands/unpackcmd"
	"github.com/acronis/go-ftl/internal/app/commands/verifycmd"
	"github.com/acronis/go-ftl/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func initLogging(verbose bool) {
	logLvl := func() slog.Level {
		if verbose {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}()
	w := os.Stderr

	logger := slog.New(
		slogformatter.NewFormatterHandler(
			slogformatter.FormatByType(func(s []string) slog.Value {
				return slog.StringValue(strings.Join(s, ","))
			}),
		)(
			prettylog.New(&slog.HandlerOptions{Level: logLvl},
				prettylog.WithDestinationWriter(w),
				func() prettylog.Option {
					if isatty.IsTerminal(w.Fd()) {
						return prettylog.WithColor()
					}
					return func(_ *prettylog.Handler) {}
				}(),
			),
		),
	)
	slog.SetDefault(logger)
}

const (
	verboseFlag = "verbose"
)

func main() {
	os.Exit(mainFn())
}

func mainFn() int {
	var ensureDuplicates bool
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	cfg, err := config.Load(command.DotEnvPath(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	rootCmd := func() *cobra.Command {
		cmd := &cobra.Command{
			Use:           "ftl",
			Short:         "ftl is a tool for maintaining Fluent message tables",
			SilenceUsage:  true,
			SilenceErrors: true,
			PersistentPreRun: func(cmd *cobra.Command, _ []string) {
				verbose, err := cmd.Flags().GetBool(verboseFlag)
				if err != nil {
					fmt.Printf("Failed to get verbosity flag: %v\n", err)
					os.Exit(1)
				}

				initLogging(verbose)
			},
			CompletionOptions: cobra.CompletionOptions{
				DisableDefaultCmd: true,
			},
		}

		command.AddWorkDirFlag(cmd)
		command.AddLocaleFlags(cmd, cfg)

		cmd.PersistentFlags().BoolP(verboseFlag, "v", false, "verbose output")
		cmd.Flags().BoolVarP(&ensureDuplicates, "ensure-duplicates", "e", false, "ensure that there are no duplicates in tracebacks")

		cmd.AddCommand(
			lintcmd.New(ctx),
			fmtcmd.New(ctx),
			rendercmd.New(ctx),
			convertcmd.New(ctx),
			indexcmd.New(ctx),
			verifycmd.New(ctx),
			newlocalecmd.New(ctx),
			packcmd.New(ctx),
			unpackcmd.New(ctx),
			infocmd.New(ctx),
			reportcmd.New(ctx),
			&cobra.Command{
				Use:   "version",
				Short: "print a version of tool",
				Args:  cobra.NoArgs,
				RunE: func(cmd *cobra.Command, _ []string) error {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), buildVersion())
					return err
				},
			},
		)
		return cmd
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var cmdErr *command.Error
		if errors.As(err, &cmdErr) && cmdErr.Inner != nil {
			if errors.Is(cmdErr.Inner, command.ErrCheckFailed) {
				slog.Error("Check failed", slog.String("reason", cmdErr.Inner.Error()))
				return 1
			}

			stOpts := func() []stacktrace.TracesOpt {
				if ensureDuplicates {
					return []stacktrace.TracesOpt{stacktrace.WithEnsureDuplicates()}
				}
				return []stacktrace.TracesOpt{}
			}()

			slog.Error("Command failed", slogex.ErrToSlogAttr(cmdErr.Inner, stOpts...))
		} else {
			fmt.Fprintln(os.Stderr, err)
			_ = rootCmd.Usage()
		}
		return 1
	}

	return 0
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
