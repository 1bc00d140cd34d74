package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/marketplace-ledger/internal/config"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/adapters/httpx"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/adapters/sqlstore"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/app"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/cache"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/interceptors"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/kafka"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/metrics"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	bindFlags(&cfg)

	log := telemetry.NewLogger(os.Stdout, cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

// bindFlags lets command-line flags override the environment.
func bindFlags(cfg *config.Config) {
	fs := pflag.NewFlagSet("marketplace-service", pflag.ExitOnError)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "sqlite or postgres")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "SQLite path or PostgreSQL URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	_ = fs.Parse(os.Args[1:])
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error("tracer shutdown error", "error", err)
		}
	}()

	if cfg.DBDriver == sqlstore.DriverSQLite {
		if err := ensureDir(cfg.DatabaseURL); err != nil {
			return err
		}
	}
	store, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(reg)
	serverMetrics := metrics.NewServerMetrics(reg, "ledger")

	payout, _ := domain.ParsePayoutPolicy(cfg.PayoutPolicy)
	opts := app.Options{
		ServiceFeePercent: cfg.ServiceFeePercent,
		Tax:               domain.FlatTax(cfg.TaxPercent),
		Payout:            payout,
		Metrics:           ledgerMetrics,
		Logger:            log,
	}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			// Checkout still replays through the orders table.
			log.Warn("redis unavailable, idempotency cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			opts.Cache = rc
		}
	}
	ledger := app.New(store, opts)

	g, gctx := errgroup.WithContext(ctx)

	kc := kafka.NewClient(cfg.KafkaBrokers)
	if kc.Enabled() {
		pub := kafka.NewPublisher(kc.NewWriter(cfg.KafkaTopic))
		defer pub.Close()
		relay := app.NewRelay(store, pub, cfg.OutboxPollInterval, ledgerMetrics, log)
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("outbox relay started", "brokers", kc.Brokers, "topic", cfg.KafkaTopic)
	} else {
		log.Info("KAFKA_BROKERS not set, outbox events stay queued")
	}

	router := httpx.NewRouter(httpx.NewHandler(ledger, log), httpx.RouterOptions{
		Logger:         log,
		Metrics:        serverMetrics,
		MetricsHandler: metrics.Handler(reg),
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	healthSrv := health.NewServer()
	grpcServer := grpc.NewServer(interceptors.ServerOptions(log)...)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	g.Go(func() error {
		log.Info("HTTP API running", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("gRPC health running", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		return watchStore(gctx, store, healthSrv, log)
	})
	g.Go(func() error {
		<-gctx.Done()
		healthSrv.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	return g.Wait()
}

// watchStore reports the database reachability through the gRPC health
// service until ctx ends.
func watchStore(ctx context.Context, store *sqlstore.Store, hs *health.Server, log *slog.Logger) error {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()
	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		if err := store.Ping(ctx); err != nil && ctx.Err() == nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			log.Warn("database ping failed", "error", err)
		}
		if status != last {
			hs.SetServingStatus("", status)
			last = status
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
