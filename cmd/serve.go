package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chittyos/intake/internal/bootstrap"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/transport/httpapi"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collection endpoint HTTP server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, intakeSvc *usecaseintake.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "serve"))

		server := &http.Server{
			Addr:         app.Config.Server.Addr,
			Handler:      httpapi.NewRouter(httpapi.NewHandler(intakeSvc)),
			ReadTimeout:  app.Config.Server.ReadTimeout,
			WriteTimeout: app.Config.Server.WriteTimeout,
		}

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "collection endpoint listening", slog.String("addr", server.Addr))
			serveErr <- server.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errs.Wrap(err, "serve http")
			}
			return nil
		case sig := <-stop:
			logging.Info(ctx, "shutting down", slog.String("signal", sig.String()))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}

		logging.Info(ctx, "collection endpoint stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
