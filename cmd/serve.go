package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"bookfinder/be/internal/config"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the book discovery HTTP API",
		Example: `  # Start with defaults and ./.env
  bookfinder serve

  # Use a config file and override the port
  bookfinder serve --config config/config.yaml --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath, opts.envPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			gin.SetMode(gin.ReleaseMode)
			handler, cleanup, err := newHandler(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			addr := ":" + cfg.Server.Port
			srv := &http.Server{
				Addr:    addr,
				Handler: handler,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bookfinder API listening", "addr", addr, "chat_provider", cfg.Chat.Provider)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides server.port)")

	return cmd
}
