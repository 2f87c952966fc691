package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"demographics/internal/location"
	personHandler "demographics/internal/person/handler"
	personMetrics "demographics/internal/person/metrics"
	"demographics/internal/person/service"
	addressStore "demographics/internal/person/store/address"
	attributeStore "demographics/internal/person/store/attribute"
	attributeTypeStore "demographics/internal/person/store/attributetype"
	nameStore "demographics/internal/person/store/name"
	personStore "demographics/internal/person/store/person"
	"demographics/internal/platform/config"
	"demographics/internal/platform/httpserver"
	"demographics/internal/platform/kafka"
	"demographics/internal/platform/logger"
	"demographics/internal/platform/metrics"
	"demographics/internal/platform/middleware"
	"demographics/internal/platform/postgres"
	"demographics/internal/platform/redis"
	"demographics/internal/platform/tracing"
	"demographics/pkg/platform/audit"
	auditpublisher "demographics/pkg/platform/audit/publisher"
	auditmemory "demographics/pkg/platform/audit/store/memory"
	auditpostgres "demographics/pkg/platform/audit/store/postgres"
	auditworker "demographics/pkg/platform/audit/worker"
	"demographics/pkg/platform/circuit"
	"demographics/pkg/platform/httputil"
	"demographics/pkg/platform/middleware/actor"
	"demographics/pkg/platform/middleware/metadata"
	"demographics/pkg/platform/middleware/requesttime"
	"demographics/pkg/platform/tx"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("demographics exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("demographics stopped")
}

// infra holds the optional backends so shutdown can release whatever was
// opened.
type infra struct {
	db       *sql.DB
	redis    *redis.Client
	producer *kafka.Producer
}

func (i *infra) close(log *slog.Logger) {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("closing redis", "error", err)
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			log.Warn("closing database", "error", err)
		}
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Server.Environment, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	res := &infra{}
	defer res.close(log)

	stores, runner, err := buildStores(ctx, cfg, log, res)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	auditStore, err := buildAudit(gctx, cfg, log, res, g)
	if err != nil {
		return err
	}
	publisher := auditpublisher.NewPublisher(auditStore, auditpublisher.WithLogger(log))
	defer publisher.Close()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(personMetrics.New()),
		service.WithAuditPublisher(publisher),
		service.WithTracer(otel.Tracer("demographics/person")),
	}
	if resolver, err := buildLocationResolver(ctx, cfg, log, res); err != nil {
		return err
	} else if resolver != nil {
		opts = append(opts, service.WithLocationResolver(resolver))
	}

	svc, err := service.New(stores, runner, opts...)
	if err != nil {
		return fmt.Errorf("build person service: %w", err)
	}

	router := newRouter(log, metrics.New(), personHandler.New(svc, log), res)
	srv := httpserver.New(cfg.Server.Addr, otelhttp.NewHandler(router, "demographics"))

	g.Go(func() error {
		log.Info("starting demographics", "addr", cfg.Server.Addr, "postgres", cfg.UsePostgres(), "env", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildStores selects PostgreSQL when DATABASE_URL is set and the in-memory
// stores otherwise.
func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger, res *infra) (service.Stores, service.TxRunner, error) {
	if !cfg.UsePostgres() {
		log.Info("using in-memory stores")
		return service.Stores{
			Persons:        personStore.NewInMemory(),
			Names:          nameStore.NewInMemory(),
			Addresses:      addressStore.NewInMemory(),
			Attributes:     attributeStore.NewInMemory(),
			AttributeTypes: attributeTypeStore.NewInMemory(),
		}, tx.NewShardedRunner(cfg.Server.TxTimeout), nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return service.Stores{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	res.db = db
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db, log); err != nil {
			return service.Stores{}, nil, err
		}
	}
	log.Info("using postgres stores")
	return service.Stores{
		Persons:        personStore.NewPostgres(db),
		Names:          nameStore.NewPostgres(db),
		Addresses:      addressStore.NewPostgres(db),
		Attributes:     attributeStore.NewPostgres(db),
		AttributeTypes: attributeTypeStore.NewPostgres(db),
	}, tx.NewPostgresRunner(db, cfg.Server.TxTimeout), nil
}

// buildAudit returns the audit store. With PostgreSQL the events land in the
// outbox; when brokers are configured a worker relays them to Kafka.
func buildAudit(ctx context.Context, cfg config.Config, log *slog.Logger, res *infra, g interface{ Go(func() error) }) (audit.Store, error) {
	if res.db == nil {
		return auditmemory.NewInMemoryStore(), nil
	}
	outbox := auditpostgres.New(res.db)
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("kafka not configured, audit events stay in the outbox")
		return outbox, nil
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return nil, err
	}
	res.producer = producer
	if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.Replicas); err != nil {
		return nil, err
	}

	w := auditworker.NewWorker(outbox, producer, auditworker.WithLogger(log))
	g.Go(func() error {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	log.Info("audit relay started", "topic", cfg.Kafka.AuditTopic)
	return outbox, nil
}

func buildLocationResolver(ctx context.Context, cfg config.Config, log *slog.Logger, res *infra) (service.LocationResolver, error) {
	if cfg.Location.BaseURL == "" {
		log.Info("location lookup disabled")
		return nil, nil
	}
	opts := []location.Option{
		location.WithLogger(log),
		location.WithBreaker(circuit.New("location", circuit.WithCooldown(cfg.Location.BreakerCooldown))),
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if rc != nil {
		res.redis = rc
		opts = append(opts, location.WithCache(location.NewRedisCache(rc, cfg.Location.CacheTTL)))
	}
	return location.NewClient(cfg.Location.BaseURL, cfg.Location.Timeout, opts...), nil
}

func newRouter(log *slog.Logger, m *metrics.Metrics, h *personHandler.Handler, res *infra) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log, m))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.AccessLog(log, m))

	r.Get("/health", healthHandler(res))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(actor.Extract(log))
		h.Register(r)
	})
	return r
}

type healthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends,omitempty"`
}

// healthHandler reports 503 when any configured backend fails its check.
func healthHandler(res *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]func(context.Context) error{}
		if res.db != nil {
			checks["postgres"] = res.db.PingContext
		}
		if res.redis != nil {
			checks["redis"] = res.redis.Health
		}
		if res.producer != nil {
			checks["kafka"] = res.producer.Health
		}

		resp := healthResponse{Status: "ok", Backends: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Backends[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Backends[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
