package convertcmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/acronis/go-ftl/internal/app/commands/convertcmd/exportcmd"
	"github.com/acronis/go-ftl/internal/app/commands/convertcmd/importcmd"
)

func New(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "move messages between Fluent and other formats",
	}
	cmd.AddCommand(
		importcmd.New(ctx),
		exportcmd.New(ctx),
	)
	return cmd
}
