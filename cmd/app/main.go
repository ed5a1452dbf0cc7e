package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"social-api/configs"
	"social-api/internal/auth"
	"social-api/internal/cache"
	"social-api/internal/events"
	"social-api/internal/health"
	"social-api/internal/migrate"
	"social-api/internal/post"
	"social-api/internal/ratelimit"
	"social-api/internal/server"
	"social-api/internal/shared/db"
	"social-api/internal/shared/jwt"
	"social-api/internal/user"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return func(context.Context) error { return nil }
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("social-api"),
		attribute.String("deployment.environment", os.Getenv("ENV")),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	_ = godotenv.Load()
	cfg := configs.LoadConfig()

	ctx := context.Background()
	shutdown := initOTEL(ctx)
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdown(c)
	}()

	store, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if cfg.AutoMigrate {
		if err := migrate.AutoMigrateAll(store); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	var writer events.Writer = events.Nop{}
	if cfg.KafkaBrokerURL != "" {
		writer = events.NewKafkaWriter(cfg.KafkaBrokerURL, cfg.KafkaTopic)
		defer writer.Close()
		log.Printf("publishing post events to %s (%s)", cfg.KafkaBrokerURL, cfg.KafkaTopic)
	}

	var limiter *ratelimit.Limiter
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis ping failed, auth rate limiting disabled: %v", err)
		} else {
			limiter = ratelimit.New(rdb)
		}
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := user.NewRepository(store)
	authSvc := auth.NewService(userRepo, tokens)

	postsCache := cache.New[[]post.Post](cache.DefaultCapacity, cache.DefaultTTL)
	postRepo := post.NewRepository(store)
	postSvc := post.NewService(postRepo, postsCache, writer)

	mux := server.NewRouter(server.Deps{
		Tokens:  tokens,
		Auth:    auth.NewHandler(authSvc),
		Posts:   post.NewHandler(postSvc),
		Health:  health.NewHandler(store),
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	log.Printf("social-api listening on %s", cfg.AppPort)
	log.Fatal(srv.ListenAndServe())
}
