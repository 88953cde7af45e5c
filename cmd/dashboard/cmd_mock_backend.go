package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/middleware"
	"IoTDashboard/internal/mock"
	"IoTDashboard/internal/mockapi"

	"github.com/spf13/cobra"
)

func runMockBackend(cmd *cobra.Command, args []string) error {
	log := logger.Default().With("mock-backend")

	router := mockapi.NewRouter(mock.NewDataSource(), log)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	srv := &http.Server{
		Addr:         backendAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Mock backend listening on %s", backendAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Warn("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
