package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// recoveryLogger adapts zerolog to the gorilla/handlers recovery logger.
type recoveryLogger struct {
	log *zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error().Msg(fmt.Sprint(v...))
}

// newRouter routes every path and method to cardHandler, wrapped with an
// access log and panic recovery.
func newRouter(cardHandler http.Handler, log *zerolog.Logger) http.Handler {
	router := mux.NewRouter()
	router.SkipClean(true)
	router.PathPrefix("/").Handler(cardHandler)

	accessLog := log.With().Str("component", "access").Logger()

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log}),
		handlers.PrintRecoveryStack(false),
	)

	return recovery(handlers.CombinedLoggingHandler(accessLog, router))
}

// Serve runs the HTTP adapter until ctx is cancelled or a signal arrives.
func Serve(ctx context.Context, cfg *Config, finder CardFinder) error {
	log := componentLogger("server")

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(NewCardHandler(finder, componentLogger("handler")), log),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting MTG card HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down MTG card HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("Stopped MTG card HTTP server")
	return nil
}
