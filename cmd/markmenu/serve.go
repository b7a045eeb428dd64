package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/markmenu"
	"github.com/aretw0/markmenu/internal/presentation/tui"
	httpAdapter "github.com/aretw0/markmenu/pkg/adapters/http"
	"github.com/aretw0/markmenu/pkg/adapters/file"
	"github.com/aretw0/markmenu/pkg/adapters/memory"
	"github.com/aretw0/markmenu/pkg/adapters/redis"
	"github.com/aretw0/markmenu/pkg/observability"
	"github.com/aretw0/markmenu/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the menu, gesture replay and a trace store over HTTP.

Traces are kept in memory unless --traces (a directory) or --redis (an
address) is given. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		hooks := observability.Chain(observability.LoggingHooks(logger), metrics.Hooks())
		m, _, err := loadMenu(cmd, markmenu.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, cmd, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		handler := httpAdapter.NewHandler(m,
			httpAdapter.WithStore(store),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		if isTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr)
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("Starting markmenu server", "address", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("markmenu server stopped gracefully")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("traces", "", "Directory to store traces in")
	serveCmd.Flags().String("redis", "", "Redis address to store traces in (host:port)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("redis-ttl", 0, "Expire stored traces after this long (0 keeps them)")
}

func openStore(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (ports.TraceStore, func(), error) {
	addr, _ := cmd.Flags().GetString("redis")
	dir, _ := cmd.Flags().GetString("traces")
	switch {
	case addr != "" && dir != "":
		return nil, nil, errors.New("--redis and --traces are mutually exclusive")
	case addr != "":
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("redis-ttl")
		store := redis.New(addr, password, db, redis.WithTTL(ttl))
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		logger.Info("storing traces in redis", "address", addr, "ttl", ttl)
		return store, func() { store.Close() }, nil
	case dir != "":
		logger.Info("storing traces on disk", "dir", dir)
		return file.New(dir), func() {}, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}
