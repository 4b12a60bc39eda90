package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chittyos/intake/internal/bootstrap"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume consideration and qualified events from the stream",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, intakeSvc *usecaseintake.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "worker"))

		stop, err := intakeSvc.ConsumeStream(ctx)
		if err != nil {
			return errs.Wrap(err, "start stream worker")
		}
		defer stop()

		logging.Info(ctx, "stream worker running")

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		sig := <-signals

		logging.Info(ctx, "stream worker stopping", slog.String("signal", sig.String()))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
