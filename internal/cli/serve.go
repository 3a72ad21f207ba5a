package cli

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"recipecards/internal/api"
	"recipecards/internal/config"
	"recipecards/internal/core"
	"recipecards/internal/logging"
	"recipecards/internal/projection"
)

// newServeCommand creates the "serve" subcommand that runs the HTTP server.
func newServeCommand(opts *Options) *cobra.Command {
	var listenAddr string
	var seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recipecards HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if !cmd.Flag("log-level").Changed && cfg.LogLevel != "" {
				logger = logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if seedPath != "" {
				cfg.SeedPath = seedPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			backend, err := core.OpenBackend(ctx)
			if err != nil {
				return fmt.Errorf("open storage backend: %w", err)
			}

			registry := core.NewRegistry(backend)
			projectors := projection.NewSet(logger)
			registry.SetLifecycleHooks(
				func(section string, store *core.RecipeStore) {
					projectors.Attach(section, store)
				},
				projectors.Detach,
			)

			discovered, err := registry.Discover(ctx)
			if err != nil {
				return fmt.Errorf("discover sections: %w", err)
			}
			if len(discovered) > 0 {
				logger.Info("sections discovered", "sections", discovered)
			}
			for _, section := range cfg.DefaultSections {
				if _, err := registry.CreateSection(section); err != nil {
					return fmt.Errorf("create section %q: %w", section, err)
				}
			}

			metrics := core.NewPrometheusMetricsRecorder(prometheus.DefaultRegisterer)
			svc := core.NewService(registry, metrics, logger)

			seed, err := config.LoadSeed(cfg.SeedPath)
			if err != nil {
				return err
			}
			if err := seed.Apply(ctx, svc); err != nil {
				return fmt.Errorf("apply seed: %w", err)
			}
			if err := projectors.RefreshAll(ctx); err != nil {
				return fmt.Errorf("build entity projection: %w", err)
			}

			handler := api.NewHandler(svc)
			handler.Entities = projectors

			mux := http.NewServeMux()
			mux.Handle("/api/v1/", handler)
			mux.Handle("/metrics", promhttp.Handler())
			mux.Handle("/debug/vars", expvar.Handler())
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})

			server := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", cfg.ListenAddr, "sections", registry.Sections())
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides RECIPECARDS_LISTEN_ADDR)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML seed file (overrides RECIPECARDS_SEED_FILE)")

	return cmd
}
