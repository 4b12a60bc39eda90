package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/chittyos/intake/internal/bootstrap"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var statsWindow time.Duration

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show qualification-rate metrics over a trailing window",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, intakeSvc *usecaseintake.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "stats"))

		result, err := intakeSvc.Stats(ctx, statsWindow)
		if err != nil {
			return errs.Wrap(err, "aggregate stats")
		}

		return printJSON(cmd, result)
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().DurationVar(&statsWindow, "window", 24*time.Hour, "Trailing window, e.g. 1h or 24h")
}
