package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cs-24-sw-8-04/scheduling/internal/api"
	"github.com/cs-24-sw-8-04/scheduling/internal/daemon"
	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/infra/store"
	"github.com/cs-24-sw-8-04/scheduling/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the background scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	alg, err := scheduler.ParseAlgorithm(cfg.Scheduler.Algorithm)
	if err != nil {
		return err
	}
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}
	delta, err := cfg.ProfileTimeDelta()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	profile := func(now time.Time) *domain.DiscreteGraph {
		values := append([]float64(nil), cfg.Profile.Values...)
		return domain.NewDiscreteGraph(values, delta, now.Truncate(delta))
	}
	worker := daemon.NewWorker(st, st, profile, alg, debounce, logger)

	server := api.NewServer(st, logger)
	server.SetRunner(worker)
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: server.Handler(),
	}
	httpDone := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", cfg.ListenAddr(), "algorithm", alg.String())
		httpDone <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-httpDone:
		stop()
		<-workerDone
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http shutdown failed", "err", err)
	}
	<-workerDone
	return nil
}
