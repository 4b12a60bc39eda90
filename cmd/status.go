package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chittyos/intake/internal/bootstrap"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var statusCmd = &cobra.Command{
	Use:   "status <submission_id>",
	Short: "Look up a submission's disposition",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, intakeSvc *usecaseintake.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "status"))

		result, err := intakeSvc.Status(ctx, cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "look up submission")
		}

		return printJSON(cmd, result)
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
