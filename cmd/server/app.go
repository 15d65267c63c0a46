package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"triplist/internal/activity"
	activityhandler "triplist/internal/activity/handler"
	activitykafka "triplist/internal/activity/store/kafka"
	activitymemory "triplist/internal/activity/store/memory"
	checklisthandler "triplist/internal/checklist/handler"
	checklistmetrics "triplist/internal/checklist/metrics"
	"triplist/internal/checklist/service"
	checkliststore "triplist/internal/checklist/store/checklist"
	itemstore "triplist/internal/checklist/store/item"
	"triplist/internal/platform/config"
	kafkaclient "triplist/internal/platform/kafka"
	"triplist/internal/platform/metrics"
	"triplist/internal/platform/middleware"
	redisclient "triplist/internal/platform/redis"
	ratelimitmetrics "triplist/internal/ratelimit/metrics"
	ratelimit "triplist/internal/ratelimit/middleware"
	"triplist/internal/ratelimit/ports"
	"triplist/internal/ratelimit/service/requestlimit"
	"triplist/internal/ratelimit/store/bucket"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/platform/httputil"
	"triplist/pkg/platform/middleware/metadata"
	"triplist/pkg/platform/middleware/requesttime"
)

const apiBasePath = "/api/v1/internal"

type app struct {
	router    http.Handler
	publisher *activity.Publisher
	redis     *redisclient.Client
	kafka     *kafkaclient.Client
	logger    *slog.Logger
}

// newApp connects optional backends and assembles the router.
func newApp(ctx context.Context, cfg *config.Server, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	var err error
	a.redis, err = redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.kafka, err = kafkaclient.New(ctx, cfg.Kafka)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if a.kafka != nil {
		if err := a.kafka.EnsureTopic(ctx, cfg.Kafka.Topic); err != nil {
			a.close()
			return nil, err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	feed := activitymemory.NewInMemoryStore(cfg.Activity.Retain)
	var sink activity.Store = feed
	if a.kafka != nil {
		sink = activity.Fanout{feed, activitykafka.NewSink(a.kafka, cfg.Kafka.Topic)}
	}
	a.publisher = activity.NewPublisher(sink,
		activity.WithLogger(logger),
		activity.WithMetrics(activity.NewMetrics(registry)),
		activity.WithAsyncBuffer(cfg.Activity.Buffer),
	)

	limiterMetrics := ratelimitmetrics.New(registry)
	a.router, err = buildRouter(routerDeps{
		cfg:            cfg,
		logger:         logger,
		registry:       registry,
		publisher:      a.publisher,
		feed:           feed,
		buckets:        a.bucketStore(logger, limiterMetrics),
		limiterMetrics: limiterMetrics,
		ready:          a.ready,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// bucketStore shares counters through Redis when configured, falling back to
// process memory while Redis is unreachable.
func (a *app) bucketStore(logger *slog.Logger, m *ratelimitmetrics.Metrics) ports.BucketStore {
	local := bucket.NewInMemoryBucketStore(bucket.WithMaxBuckets(100_000))
	if a.redis == nil {
		return local
	}
	return bucket.NewFallback(bucket.NewRedis(a.redis.Client), local,
		bucket.WithFallbackLogger(logger),
		bucket.WithFallbackMetrics(m),
	)
}

// ready pings every configured backend.
func (a *app) ready(ctx context.Context) error {
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if a.kafka != nil {
		if err := a.kafka.Health(ctx); err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
	}
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", "error", err)
		}
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
}

type routerDeps struct {
	cfg            *config.Server
	logger         *slog.Logger
	registry       *prometheus.Registry
	publisher      service.ActivityPublisher
	feed           activity.Reader
	buckets        ports.BucketStore
	limiterMetrics *ratelimitmetrics.Metrics
	ready          func(context.Context) error
}

// buildRouter wires the checklist module behind the shared middleware chain.
func buildRouter(d routerDeps) (http.Handler, error) {
	cfg, logger, registry := d.cfg, d.logger, d.registry

	checklists := checkliststore.NewInMemory()
	items := itemstore.NewInMemory(checklists)
	svc := service.New(checklists, items,
		service.WithLogger(logger),
		service.WithActivityPublisher(d.publisher),
		service.WithMetrics(checklistmetrics.New(registry)),
		service.WithTxTimeout(cfg.TxTimeout),
	)

	limiter, err := requestlimit.New(d.buckets, cfg.RateLimit,
		requestlimit.WithLogger(logger),
		requestlimit.WithMetrics(d.limiterMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("build rate limiter: %w", err)
	}
	limit := ratelimit.New(limiter, logger, ratelimit.WithDisabled(!cfg.RateLimit.Enabled))

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.LatencyMiddleware(metrics.New(registry)))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed, "method not allowed"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			logger.WarnContext(ctx, "readiness check failed", "error", err)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "dependencies unavailable"))
			return
		}
		httputil.WriteData(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	r.Route(apiBasePath, func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(middleware.ContentTypeJSON)
		api.Use(limit.ByMethod)

		checklisthandler.New(svc, logger).Register(api)
		activityhandler.New(d.feed, logger).Register(api)
	})

	return r, nil
}
