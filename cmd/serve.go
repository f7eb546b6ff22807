package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/server"
)

var serveFlags struct {
	port     int
	envFiles []string
	grace    time.Duration
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := config.Load(serveFlags.envFiles...)
		if err != nil {
			return err
		}

		cfg := &server.Config{Port: serveFlags.port, Logger: log.Logger, App: app}
		srv := server.New(cfg)
		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)

		chErr := make(chan error, 1)
		wg := &sync.WaitGroup{}
		wg.Go(func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				chErr <- err
			}
		})

		select {
		case sig := <-chSignal:
			cfg.Logger.Info().Str("signal", sig.String()).Msg("shutting down server...")
		case err := <-chErr:
			cfg.Logger.Error().Err(err).Msg("server error")
		}

		ctx, cancel := context.WithTimeout(context.Background(), serveFlags.grace)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			cfg.Logger.Error().Err(err).Msg("error during server shutdown")
		}

		wg.Wait()
		cfg.Logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 3001, "Port to listen on")
	serveCmd.Flags().StringSliceVar(&serveFlags.envFiles, "env-file", nil, "Env files to load (default .env)")
	serveCmd.Flags().DurationVar(&serveFlags.grace, "grace", 10*time.Second, "Time allowed for in-flight requests on shutdown")
}
